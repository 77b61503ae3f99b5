package xmlrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCallRoundTrip(t *testing.T) {
	body, err := MarshalCall("registerPublisher", []Value{
		"node1",
		"/turtle1/cmd_vel",
		"geometry_msgs/Twist",
		"http://host:1234/",
	})
	require.NoError(t, err)

	call, err := UnmarshalCall(body)
	require.NoError(t, err)
	assert.Equal(t, "registerPublisher", call.MethodName)
	require.Len(t, call.Params, 4)
	assert.Equal(t, "node1", call.Params[0])
	assert.Equal(t, "/turtle1/cmd_vel", call.Params[1])
}

func TestMarshalResponseRoundTripScalarTypes(t *testing.T) {
	cases := []Value{
		int64(1),
		"hello",
		true,
		false,
		3.5,
		nil,
	}
	for _, v := range cases {
		body, err := MarshalResponse(v)
		require.NoError(t, err)
		got, err := UnmarshalResponse(body)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestMarshalResponseRoundTripStruct(t *testing.T) {
	v := map[string]interface{}{
		"status":  int64(1),
		"message": "",
		"value":   []interface{}{"http://a/", "http://b/"},
	}
	body, err := MarshalResponse(v)
	require.NoError(t, err)

	got, err := UnmarshalResponse(body)
	require.NoError(t, err)
	m, ok := got.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(1), m["status"])
	arr, ok := m["value"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"http://a/", "http://b/"}, arr)
}

func TestMarshalResponseRoundTripBase64(t *testing.T) {
	body, err := MarshalResponse([]byte("binary payload"))
	require.NoError(t, err)
	got, err := UnmarshalResponse(body)
	require.NoError(t, err)
	assert.Equal(t, []byte("binary payload"), got)
}

func TestUnmarshalResponseFault(t *testing.T) {
	body, err := MarshalFault(404, "unknown method \"bogus\"")
	require.NoError(t, err)

	_, err = UnmarshalResponse(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}

func TestMarshalCallEscapesSpecialCharacters(t *testing.T) {
	body, err := MarshalCall("setParam", []Value{"node1", "/x", "<tag> & \"quoted\""})
	require.NoError(t, err)
	call, err := UnmarshalCall(body)
	require.NoError(t, err)
	assert.Equal(t, `<tag> & "quoted"`, call.Params[2])
}
