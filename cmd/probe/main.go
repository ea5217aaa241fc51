package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Smoke probe for a running instance: registers a throwaway user, opens a
// session, sends one chat turn and prints each response. Not a test suite;
// point PROBE_BASE_URL at the target and read the output.

var baseURL = getenv("PROBE_BASE_URL", "http://localhost:3000/api")

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(name string) {
	color.Cyan("\n=== %s ===", name)
}

func check(resp *http.Response, body []byte, err error) map[string]interface{} {
	if err != nil {
		color.Red("FAIL: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("FAIL: HTTP %d: %s", resp.StatusCode, string(body))
		os.Exit(1)
	}
	color.Green("OK: HTTP %d", resp.StatusCode)

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		color.Yellow("non-JSON body: %s", string(body))
		return nil
	}
	pretty, _ := json.MarshalIndent(parsed, "", "  ")
	fmt.Println(string(pretty))
	return parsed
}

func dataField(parsed map[string]interface{}, key string) string {
	data, ok := parsed["data"].(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := data[key].(string)
	return v
}

func main() {
	step("Health")
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Get(getenv("PROBE_HEALTH_URL", "http://localhost:3000/health"))
	var body []byte
	if err == nil {
		body, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	check(resp, body, err)

	email := fmt.Sprintf("probe-%d@example.com", time.Now().UnixNano())

	step("Register")
	resp, body, err = sendRequest("POST", "/auth/register", "", map[string]string{
		"email":     email,
		"password":  "probe-password-1",
		"full_name": "Smoke Probe",
	})
	check(resp, body, err)

	step("Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": "probe-password-1",
	})
	parsed := check(resp, body, err)
	token := dataField(parsed, "access_token")
	if token == "" {
		color.Red("FAIL: login returned no access_token")
		os.Exit(1)
	}

	step("Update profile")
	resp, body, err = sendRequest("PUT", "/user/v1/profile", token, map[string]string{
		"company_name": "Probe Industries",
		"industry":     "fintech",
	})
	check(resp, body, err)

	step("Create session")
	resp, body, err = sendRequest("POST", "/chatbot/v1/session", token, map[string]string{})
	parsed = check(resp, body, err)
	sessionId := dataField(parsed, "id")
	if sessionId == "" {
		color.Red("FAIL: session response has no id")
		os.Exit(1)
	}

	step("Send chat")
	resp, body, err = sendRequest("POST", "/chatbot/v1/chat", token, map[string]string{
		"chat_session_id": sessionId,
		"chat":            "What are the current market trends in fintech?",
	})
	check(resp, body, err)

	step("Usage stats")
	resp, body, err = sendRequest("GET", "/analytics/v1/usage?days=7", token, nil)
	check(resp, body, err)

	color.Green("\nAll probe steps passed.")
}
