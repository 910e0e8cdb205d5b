package person_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"labtrack/internal/domain/person"
)

func TestPersonValidate(t *testing.T) {
	tests := []struct {
		name    string
		person  person.Person
		wantErr error
	}{
		{
			name:   "valid",
			person: person.Person{Name: "Ada Lovelace", Email: "ada@example.org"},
		},
		{
			name:   "institution optional",
			person: person.Person{Name: "Ada", Email: "ada@example.org", Institution: "Analytical Engines Ltd"},
		},
		{
			name:    "missing name",
			person:  person.Person{Email: "ada@example.org"},
			wantErr: person.ErrNameRequired,
		},
		{
			name:    "whitespace name",
			person:  person.Person{Name: "   ", Email: "ada@example.org"},
			wantErr: person.ErrNameRequired,
		},
		{
			name:    "missing email",
			person:  person.Person{Name: "Ada"},
			wantErr: person.ErrInvalidEmail,
		},
		{
			name:    "email without at sign",
			person:  person.Person{Name: "Ada", Email: "ada.example.org"},
			wantErr: person.ErrInvalidEmail,
		},
		{
			name:    "email with nothing after at sign",
			person:  person.Person{Name: "Ada", Email: "ada@"},
			wantErr: person.ErrInvalidEmail,
		},
		{
			name:    "email with spaces",
			person:  person.Person{Name: "Ada", Email: "ada lovelace@example.org"},
			wantErr: person.ErrInvalidEmail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.person.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
