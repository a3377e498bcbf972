package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifyLocators_ParsesLocatorsFromResponse(t *testing.T) {
	var gotReq identifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/identify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identifyResponse{Locators: []locatorPayload{
			{Description: "email field", Locator: "#email", Kind: "input"},
			{Description: "submit button", Locator: "button[type=submit]", Kind: "click"},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	locators, err := c.IdentifyLocators(context.Background(), "https://example.com/login", "log in with email and password")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/login", gotReq.URL)
	require.Equal(t, "log in with email and password", gotReq.Plan)

	require.Len(t, locators, 2)
	require.Equal(t, "#email", locators[0].Locator)
	require.Equal(t, "input", locators[0].Kind)
	require.Equal(t, "click", locators[1].Kind)
}

func TestIdentifyLocators_ReturnsEmptySliceOnEmptyLocators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identifyResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	locators, err := c.IdentifyLocators(context.Background(), "https://example.com", "plan")
	require.NoError(t, err)
	require.Empty(t, locators)
}

func TestIdentifyLocators_ErrorsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.IdentifyLocators(context.Background(), "https://example.com", "plan")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestIdentifyLocators_ErrorsOnMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.IdentifyLocators(context.Background(), "https://example.com", "plan")
	require.Error(t, err)
}
