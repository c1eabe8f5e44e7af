package onebot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGroupMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send_group_msg", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req sendGroupMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.GroupID)
		require.Len(t, req.Message, 1)
		assert.Equal(t, "text", req.Message[0].Type)
		assert.Equal(t, "TZ：混沌圣所", req.Message[0].Data.Text)

		_, _ = w.Write([]byte(`{"status":"ok","retcode":0,"data":{"message_id":777}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "secret-token", nil)
	id, err := client.SendGroupMessage(context.Background(), 42, "TZ：混沌圣所")
	require.NoError(t, err)
	assert.Equal(t, int64(777), id)
}

func TestSendGroupMessageCustomURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/relay/send", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","retcode":0,"data":{"message_id":1}}`))
	}))
	defer server.Close()

	client := NewClient("http://unused.invalid", server.URL+"/relay/send", "", nil)
	_, err := client.SendGroupMessage(context.Background(), 1, "hi")
	require.NoError(t, err)
}

func TestSendGroupMessageRetcodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed","retcode":100}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", nil)
	_, err := client.SendGroupMessage(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retcode 100")
}

func TestSendGroupMessageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", nil)
	_, err := client.SendGroupMessage(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGetMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_msg", r.URL.Path)

		var req messageIDRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.MessageID)

		_, _ = w.Write([]byte(`{"status":"ok","retcode":0,"data":{"message":[{"type":"image","data":{"url":"https://img.example/x.png"}}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", nil)
	segs, err := client.GetMessage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/x.png", ImageURLFromSegments(segs))
}

func TestDeleteMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete_msg", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","retcode":0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", nil)
	require.NoError(t, client.DeleteMessage(context.Background(), 5))
}
