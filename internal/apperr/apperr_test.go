package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusBadRequest, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusServiceUnavailable, KindServer},
		{http.StatusTeapot, KindUnknown},
		{http.StatusConflict, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, KindForStatus(tt.status))
		})
	}
}

func TestFromStatus_ParsesMessageShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"string message", `{"message":"amount is required"}`, []string{"amount is required"}},
		{"array message", `{"message":["amount is required","reason is required"]}`, []string{"amount is required", "reason is required"}},
		{"error field", `{"error":"bad token"}`, []string{"bad token"}},
		{"errors objects", `{"errors":[{"message":"saleId unknown"}]}`, []string{"saleId unknown"}},
		{"message wins over error", `{"message":"first","error":"second"}`, []string{"first"}},
		{"blank message", `{"message":"  "}`, nil},
		{"not json", `<html>oops</html>`, nil},
		{"empty", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(http.StatusUnprocessableEntity, []byte(tt.body))
			assert.Equal(t, tt.want, err.Messages)
		})
	}
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", FromStatus(401, nil), MsgUnauthorized},
		{"forbidden ignores body", FromStatus(403, []byte(`{"message":"role=cashier"}`)), MsgForbidden},
		{"not found", FromStatus(404, nil), MsgNotFound},
		{"validation joins messages", FromStatus(422, []byte(`{"message":["a is bad","b is bad"]}`)), "a is bad; b is bad"},
		{"validation without body", FromStatus(422, nil), MsgValidation},
		{"server hides body", FromStatus(500, []byte(`{"message":"pq: relation does not exist"}`)), MsgServer},
		{"network", Network(errors.New("dial tcp: connection refused")), MsgNetwork},
		{"local", Local("Rejection reason is required"), "Rejection reason is required"},
		{"wrapped", fmt.Errorf("approve: %w", FromStatus(403, nil)), MsgForbidden},
		{"plain error", errors.New("panic: runtime error"), MsgUnknown},
		{"unknown status", FromStatus(418, nil), MsgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, FromStatus(401, nil).HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, FromStatus(400, nil).HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, Local("x").HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, Network(errors.New("x")).HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, FromStatus(503, nil).HTTPStatus())
}

func TestAsAndIsKind(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("list refunds: %w", Network(cause))

	ae, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, ae.Kind)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(err, KindServer))
	assert.False(t, IsKind(errors.New("x"), KindUnknown))
}

func TestLocal(t *testing.T) {
	err := Localf("Refund amount %s exceeds the sale total of %s", "$150.00", "$100.00")
	assert.True(t, err.Local)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "Refund amount $150.00 exceeds the sale total of $100.00", DisplayMessage(err))
	assert.Contains(t, err.Error(), "validation")
}
