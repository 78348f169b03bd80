package integration

import (
	"fmt"

	"github.com/cucumber/godog"
)

// RegisterAuthSteps registers token and identity step definitions
func (s *StepsContext) RegisterAuthSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I use an invalid token$`, s.iUseAnInvalidToken)
	sc.Step(`^I have no token$`, s.iHaveNoToken)
	sc.Step(`^my identity should be "([^"]*)"$`, s.myIdentityShouldBe)
}

func (s *StepsContext) iUseAnInvalidToken() error {
	s.authToken = "not-a-valid-token"
	return nil
}

func (s *StepsContext) iHaveNoToken() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) myIdentityShouldBe(expected string) error {
	userID, err := s.bodyField("user_id")
	if err != nil {
		return err
	}
	if userID != expected {
		return fmt.Errorf("expected identity %q, got %v (%s)", expected, userID, s.responseBody)
	}
	return nil
}
