package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreKeys(t *testing.T) {
	assert.Equal(t, "event:42", EventKey(42))
	assert.Equal(t, "ticket:42:alice", TicketKey(42, "alice"))
	assert.Equal(t, "ticket:42:", TicketPrefix(42))
}

func TestTicketPrefix_DoesNotMatchLongerEventID(t *testing.T) {
	// The trailing separator keeps event 4's prefix from matching
	// event 42's tickets.
	assert.False(t, strings.HasPrefix(TicketKey(42, "alice"), TicketPrefix(4)))
	assert.True(t, strings.HasPrefix(TicketKey(4, "alice"), TicketPrefix(4)))
}

func TestResalePolicy_Ceiling(t *testing.T) {
	tests := []struct {
		name     string
		policy   ResalePolicy
		price    uint64
		explicit uint64
		want     uint64
	}{
		{"fixed uses explicit ceiling", ResalePolicyFixed, 100, 120, 120},
		{"fixed ignores face price", ResalePolicyFixed, 100, 80, 80},
		{"markup adds twenty percent", ResalePolicyMarkup, 100, 999, 120},
		{"markup floors the surcharge", ResalePolicyMarkup, 99, 0, 118},
		{"markup of zero price", ResalePolicyMarkup, 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Ceiling(tt.price, tt.explicit))
		})
	}
}

func TestResalePolicy_Valid(t *testing.T) {
	assert.True(t, ResalePolicyFixed.Valid())
	assert.True(t, ResalePolicyMarkup.Valid())
	assert.False(t, ResalePolicy("auction").Valid())
}
