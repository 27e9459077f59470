package wfh

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRequestValidate(t *testing.T) {
	ok := SubmitRequest{Date: "2024-06-01", Reason: "  internet install  "}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "internet install", ok.Reason)
	assert.Equal(t, "2024-06-01", ok.ParsedDate().Format(validator.DateLayout))

	cases := []struct {
		name  string
		req   SubmitRequest
		field string
	}{
		{"missing date", SubmitRequest{Reason: "x"}, "date"},
		{"bad date", SubmitRequest{Date: "01/06/2024", Reason: "x"}, "date"},
		{"blank reason", SubmitRequest{Date: "2024-06-01", Reason: "   "}, "reason"},
		{"long reason", SubmitRequest{Date: "2024-06-01", Reason: strings.Repeat("a", 1001)}, "reason"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tc.field)
		})
	}
}

func TestRespondRequestValidate(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusRejected} {
		r := RespondRequest{Status: s}
		assert.NoError(t, r.Validate())
	}
	for _, s := range []Status{StatusPending, "approved", ""} {
		r := RespondRequest{Status: s}
		assert.ErrorIs(t, r.Validate(), ErrInvalidDecision)
	}
}
