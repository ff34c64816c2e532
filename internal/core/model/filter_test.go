package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestAuditFilterValidate(t *testing.T) {
	day1 := time.Date(2016, time.September, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2016, time.September, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		filter      AuditFilter
		expectedErr error
	}{
		{
			name:   "empty filter is valid",
			filter: AuditFilter{},
		},
		{
			name:   "only start bound is valid",
			filter: AuditFilter{Start: timePtr(day2)},
		},
		{
			name:   "only end bound is valid",
			filter: AuditFilter{End: timePtr(day1)},
		},
		{
			name:   "ordered bounds are valid",
			filter: AuditFilter{Start: timePtr(day1), End: timePtr(day2)},
		},
		{
			name:   "equal bounds are valid",
			filter: AuditFilter{Start: timePtr(day1), End: timePtr(day1)},
		},
		{
			name:        "start after end is rejected",
			filter:      AuditFilter{Start: timePtr(day2), End: timePtr(day1)},
			expectedErr: ErrInvalidRange,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.filter.Validate()
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuditFilterMatches(t *testing.T) {
	account := Account{
		Email:      "wa@gmail.com",
		FirstName:  "Warren",
		MiddleName: "Lo",
		LastName:   "Nocos",
	}
	loginTime := time.Date(2016, time.September, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		filter  AuditFilter
		matches bool
	}{
		{
			name:    "empty filter matches everything",
			filter:  AuditFilter{},
			matches: true,
		},
		{
			name:    "login before start excluded",
			filter:  AuditFilter{Start: timePtr(loginTime.Add(time.Minute))},
			matches: false,
		},
		{
			name:    "login at start included",
			filter:  AuditFilter{Start: timePtr(loginTime)},
			matches: true,
		},
		{
			name:    "login at end included",
			filter:  AuditFilter{End: timePtr(loginTime)},
			matches: true,
		},
		{
			name:    "login after end excluded",
			filter:  AuditFilter{End: timePtr(loginTime.Add(-time.Minute))},
			matches: false,
		},
		{
			name:    "first name in group matches",
			filter:  AuditFilter{FirstNames: []string{"Prex", "Warren"}},
			matches: true,
		},
		{
			name:    "first name outside group excluded",
			filter:  AuditFilter{FirstNames: []string{"Prex"}},
			matches: false,
		},
		{
			name: "groups are conjoined",
			filter: AuditFilter{
				FirstNames: []string{"Warren"},
				LastNames:  []string{"Antonio"},
			},
			matches: false,
		},
		{
			name: "all groups satisfied matches",
			filter: AuditFilter{
				Emails:      []string{"wa@gmail.com"},
				FirstNames:  []string{"Warren", "Prex"},
				MiddleNames: []string{"Lo", "Quiza"},
				LastNames:   []string{"Nocos", "Antonio"},
			},
			matches: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.matches, test.filter.Matches(account, loginTime))
		})
	}
}

func TestPageRequest(t *testing.T) {
	tests := []struct {
		name           string
		page           PageRequest
		unbounded      bool
		expectedOffset int
	}{
		{
			name:           "zero value",
			page:           PageRequest{},
			expectedOffset: 0,
		},
		{
			name:           "third page of ten",
			page:           PageRequest{Page: 2, Size: 10},
			expectedOffset: 20,
		},
		{
			name:           "size-all ignores the page index",
			page:           PageRequest{Page: 5, Size: SizeAll},
			unbounded:      true,
			expectedOffset: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.unbounded, test.page.Unbounded())
			assert.Equal(t, test.expectedOffset, test.page.Offset())
		})
	}
}
