package xmlrpc

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandlerDispatchesKnownMethod(t *testing.T) {
	methods := map[string]Method{
		"getPid": func(ctx context.Context, params []Value) (Value, error) {
			return []interface{}{int64(1), "", int64(4242)}, nil
		},
	}
	h := NewHandler(methods, zap.NewNop())

	body, err := MarshalCall("getPid", []Value{"caller"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/RPC2", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp, err := UnmarshalResponse(w.Body.Bytes())
	require.NoError(t, err)
	arr, ok := resp.([]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(4242), arr[2])
}

func TestHandlerFaultsOnUnknownMethod(t *testing.T) {
	h := NewHandler(map[string]Method{}, zap.NewNop())

	body, err := MarshalCall("bogusMethod", nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/RPC2", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	_, err = UnmarshalResponse(w.Body.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}

func TestHandlerFaultsWhenMethodErrors(t *testing.T) {
	methods := map[string]Method{
		"boom": func(ctx context.Context, params []Value) (Value, error) {
			return nil, errors.New("kaboom")
		},
	}
	h := NewHandler(methods, zap.NewNop())

	body, err := MarshalCall("boom", nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/RPC2", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	_, err = UnmarshalResponse(w.Body.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}
