package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/session"
)

// RequirementView is one displayable requirement with its advisory status.
type RequirementView struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// StepView is the resolved walkthrough state returned by the API.
type StepView struct {
	Instruction  string            `json:"instruction,omitempty"`
	Items        []RequirementView `json:"items,omitempty"`
	Requirements []RequirementView `json:"requirements,omitempty"`
	Progress     int               `json:"progress"`
	Done         bool              `json:"done"`
}

// SessionView is a session together with its resolved step.
type SessionView struct {
	Session *session.Session `json:"session"`
	Step    StepView         `json:"step"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listQuests(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	resp, err := client.Get(baseURL + "/v1/quests")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var questMap map[string]string
	if err := json.Unmarshal(body, &questMap); err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range questMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, questMap, nil
}

func createSession(client *http.Client, baseURL string, questFile string) (*SessionView, error) {
	jsonData, err := json.Marshal(map[string]string{"quest_file": questFile})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var view SessionView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &view, nil
}

func putState(client *http.Client, baseURL string, sessionID uuid.UUID, snap *gamestate.Snapshot) (*StepView, error) {
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/state", baseURL, sessionID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to report state: %s", errorResp.Error)
	}

	var step StepView
	if err := json.Unmarshal(body, &step); err != nil {
		return nil, fmt.Errorf("failed to parse step response: %w", err)
	}
	return &step, nil
}

func deleteSession(client *http.Client, baseURL string, sessionID uuid.UUID) error {
	url := fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}
