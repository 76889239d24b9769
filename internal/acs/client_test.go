package acs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acs-console/internal/acs"
)

func TestSubmitTaskReturnsAssignedID(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"_id":"task-42"}`))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	externalID, err := client.SubmitTask(context.Background(), "device-1", "reboot", map[string]any{"foo": "bar"})

	require.NoError(t, err)
	assert.Equal(t, "task-42", externalID)
	assert.Equal(t, "/devices/device-1/tasks?connection_request", gotPath)
	assert.Equal(t, "reboot", gotBody["name"])
	assert.Equal(t, "bar", gotBody["foo"])
}

func TestSubmitTaskMissingIDIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	_, err := client.SubmitTask(context.Background(), "device-1", "reboot", nil)

	assert.ErrorIs(t, err, acs.ErrMalformedResponse)
}

func TestSubmitTaskSurfacesUpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("device not managed"))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	_, err := client.SubmitTask(context.Background(), "device-1", "reboot", nil)

	var upstreamErr *acs.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	assert.Equal(t, "device not managed", upstreamErr.Body)
}

func TestSubmitTaskUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	_, err := client.SubmitTask(context.Background(), "device-1", "reboot", nil)

	assert.ErrorIs(t, err, acs.ErrUpstreamUnreachable)
}

func TestCancelTask(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	err := client.CancelTask(context.Background(), "task-42")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/tasks/task-42", gotPath)
}

func TestCancelTaskGoneUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	err := client.CancelTask(context.Background(), "task-42")

	var upstreamErr *acs.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
}

func TestListDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"device-1"},{"_id":"device-2"}]`))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	devices, err := client.ListDevices(context.Background())

	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "device-1", devices[0]["_id"])
}

func TestGetDeviceFiltersByID(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`[{"_id":"device-1"}]`))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	device, err := client.GetDevice(context.Background(), "device-1")

	require.NoError(t, err)
	assert.Equal(t, "device-1", device["_id"])
	assert.JSONEq(t, `{"_id":"device-1"}`, gotQuery)
}

func TestGetDeviceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := acs.NewHTTPClient(acs.Config{BaseURL: server.URL})
	_, err := client.GetDevice(context.Background(), "device-1")

	assert.ErrorIs(t, err, acs.ErrDeviceNotFound)
}
