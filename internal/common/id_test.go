package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWorkspaceFile(t *testing.T) {
	id := NewWorkspaceID()

	tests := []struct {
		name string
		want bool
	}{
		{id + ".pdf", true},
		{id + ".xlsx", true},
		{id, false},
		{id + ".json", false},
		{id + ".pdf.bak", false},
		{"token.json", false},
		{"client_secret.json", false},
		{"report.pdf", false},
		{"{" + id + "}.pdf", false},
		{"urn:uuid:" + id + ".xlsx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWorkspaceFile(tt.name))
		})
	}
}
