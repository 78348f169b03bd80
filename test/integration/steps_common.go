package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	documentID   string
	queryID      string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the server is running$`, s.theServerIsRunning)

	// Session steps
	sc.Step(`^I create a session for user "([^"]*)"$`, s.iCreateASessionForUser)
	sc.Step(`^I should receive an access token$`, s.iShouldReceiveAnAccessToken)
	sc.Step(`^I request my identity$`, s.iRequestMyIdentity)

	// Document steps
	sc.Step(`^I upload a text document "([^"]*)" with content:$`, s.iUploadATextDocumentWithContent)
	sc.Step(`^I upload a file "([^"]*)" with content "([^"]*)"$`, s.iUploadAFileWithContent)
	sc.Step(`^the document is processed$`, s.theDocumentIsProcessed)
	sc.Step(`^the document status should be "([^"]*)"$`, s.theDocumentStatusShouldBe)
	sc.Step(`^I list the documents$`, s.iListTheDocuments)
	sc.Step(`^I delete the document$`, s.iDeleteTheDocument)
	sc.Step(`^I fetch the document$`, s.iFetchTheDocument)

	// Query steps
	sc.Step(`^I submit the query "([^"]*)"$`, s.iSubmitTheQuery)
	sc.Step(`^the decision should be "([^"]*)"$`, s.theDecisionShouldBe)
	sc.Step(`^the extracted procedure should be "([^"]*)"$`, s.theExtractedProcedureShouldBe)
	sc.Step(`^I fetch the query from the history$`, s.iFetchTheQueryFromTheHistory)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)

	s.RegisterAuthSteps(sc)
}

// HTTP helpers

func (s *StepsContext) doRequest(method, path string, contentType string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) bodyField(name string) (any, error) {
	var payload map[string]any
	if err := json.Unmarshal(s.responseBody, &payload); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	val, ok := payload[name]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", name, s.responseBody)
	}
	return val, nil
}

// Background steps

func (s *StepsContext) theServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// Session steps

func (s *StepsContext) iCreateASessionForUser(userID string) error {
	body, _ := json.Marshal(map[string]any{"user_id": userID})
	if err := s.doRequest("POST", "/api/v1/auth/session", "application/json", bytes.NewReader(body)); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		token, err := s.bodyField("access_token")
		if err != nil {
			return err
		}
		s.authToken, _ = token.(string)
	}
	return nil
}

func (s *StepsContext) iShouldReceiveAnAccessToken() error {
	if s.authToken == "" {
		return fmt.Errorf("no access token received: %s", s.responseBody)
	}
	return nil
}

func (s *StepsContext) iRequestMyIdentity() error {
	return s.doRequest("GET", "/api/v1/auth/whoami", "", nil)
}

// Document steps

func (s *StepsContext) iUploadATextDocumentWithContent(filename string, content *godog.DocString) error {
	return s.uploadFile(filename, content.Content)
}

func (s *StepsContext) iUploadAFileWithContent(filename, content string) error {
	return s.uploadFile(filename, content)
}

func (s *StepsContext) uploadFile(filename, content string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return err
	}
	if err := writer.WriteField("document_type", "policy"); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if err := s.doRequest("POST", "/api/v1/documents/upload", writer.FormDataContentType(), &buf); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		id, err := s.bodyField("id")
		if err != nil {
			return err
		}
		s.documentID, _ = id.(string)
	}
	return nil
}

// theDocumentIsProcessed polls until the background pipeline settles.
func (s *StepsContext) theDocumentIsProcessed() error {
	if s.documentID == "" {
		return fmt.Errorf("no document uploaded")
	}

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		if err := s.doRequest("GET", "/api/v1/documents/"+s.documentID, "", nil); err != nil {
			return err
		}
		status, err := s.bodyField("processing_status")
		if err != nil {
			return err
		}
		if status == "completed" || status == "failed" {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("document %s still processing: %s", s.documentID, s.responseBody)
}

func (s *StepsContext) theDocumentStatusShouldBe(expected string) error {
	status, err := s.bodyField("processing_status")
	if err != nil {
		return err
	}
	if status != expected {
		return fmt.Errorf("expected status %q, got %v (%s)", expected, status, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iListTheDocuments() error {
	return s.doRequest("GET", "/api/v1/documents", "", nil)
}

func (s *StepsContext) iFetchTheDocument() error {
	if s.documentID == "" {
		return fmt.Errorf("no document uploaded")
	}
	return s.doRequest("GET", "/api/v1/documents/"+s.documentID, "", nil)
}

func (s *StepsContext) iDeleteTheDocument() error {
	if s.documentID == "" {
		return fmt.Errorf("no document uploaded")
	}
	return s.doRequest("DELETE", "/api/v1/documents/"+s.documentID, "", nil)
}

// Query steps

func (s *StepsContext) iSubmitTheQuery(query string) error {
	body, _ := json.Marshal(map[string]any{"query": query})
	if err := s.doRequest("POST", "/api/v1/queries/process", "application/json", bytes.NewReader(body)); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		id, err := s.bodyField("query_id")
		if err != nil {
			return err
		}
		s.queryID, _ = id.(string)
	}
	return nil
}

func (s *StepsContext) theDecisionShouldBe(expected string) error {
	decision, err := s.bodyField("decision")
	if err != nil {
		return err
	}
	if decision != expected {
		return fmt.Errorf("expected decision %q, got %v (%s)", expected, decision, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theExtractedProcedureShouldBe(expected string) error {
	entities, err := s.bodyField("entities")
	if err != nil {
		return err
	}
	m, ok := entities.(map[string]any)
	if !ok {
		return fmt.Errorf("entities is not an object: %v", entities)
	}
	if m["procedure"] != expected {
		return fmt.Errorf("expected procedure %q, got %v", expected, m["procedure"])
	}
	return nil
}

func (s *StepsContext) iFetchTheQueryFromTheHistory() error {
	if s.queryID == "" {
		return fmt.Errorf("no query submitted")
	}
	return s.doRequest("GET", "/api/v1/queries/"+s.queryID, "", nil)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d (%s)", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("response does not contain %q: %s", expected, s.responseBody)
	}
	return nil
}
