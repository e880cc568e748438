package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSystemList(t *testing.T) {
	tests := []struct {
		name   string
		joined string
		want   []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "Salesforce", []string{"Salesforce"}},
		{"multiple with spaces", "Salesforce, Zendesk ,Jira", []string{"Salesforce", "Zendesk", "Jira"}},
		{"trailing comma", "Salesforce,", []string{"Salesforce"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSystemList(tt.joined))
		})
	}
}

func TestMatchSystemNames(t *testing.T) {
	tests := []struct {
		name         string
		trainee      []string
		ideal        []string
		wantComplete bool
		wantMissing  []string
	}{
		{
			name:         "case insensitive match with one missing",
			trainee:      []string{"Salesforce", "Zendesk"},
			ideal:        []string{"salesforce", "Jira"},
			wantComplete: false,
			wantMissing:  []string{"Jira"},
		},
		{
			name:         "word order ignored",
			trainee:      []string{"CRM System A"},
			ideal:        []string{"Crm System A"},
			wantComplete: true,
			wantMissing:  nil,
		},
		{
			name:         "no ideal systems is always complete",
			trainee:      nil,
			ideal:        nil,
			wantComplete: true,
			wantMissing:  nil,
		},
		{
			name:         "trainee referenced nothing",
			trainee:      nil,
			ideal:        []string{"Knowledge Base"},
			wantComplete: false,
			wantMissing:  []string{"Knowledge Base"},
		},
		{
			name:         "missing keeps original casing and order",
			trainee:      []string{"Billing Portal"},
			ideal:        []string{"Knowledge Base", "Billing Portal", "Case Management"},
			wantComplete: false,
			wantMissing:  []string{"Knowledge Base", "Case Management"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, missing := MatchSystemNames(tt.trainee, tt.ideal)
			assert.Equal(t, tt.wantComplete, complete)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestSystemNameFeedback(t *testing.T) {
	assert.Equal(t,
		"The source(s) referenced by the trainee are complete.",
		SystemNameFeedback(true, nil))

	assert.Equal(t,
		"The source(s) referenced by the trainee are incomplete. The missing source name(s) are Jira, Zendesk.",
		SystemNameFeedback(false, []string{"Jira", "Zendesk"}))
}
