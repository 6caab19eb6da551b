package job

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Fields)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(f *Fields) {},
		},
		{
			name:   "salary bounds are not ordered",
			modify: func(f *Fields) { f.SalaryMin, f.SalaryMax = 200000, 1 },
		},
		{
			name:   "zero salaries allowed",
			modify: func(f *Fields) { f.SalaryMin, f.SalaryMax = 0, 0 },
		},
		{
			name:    "missing title",
			modify:  func(f *Fields) { f.Title = "" },
			wantErr: "title is required",
		},
		{
			name:    "missing company and location",
			modify:  func(f *Fields) { f.Company, f.Location = "", "" },
			wantErr: "company is required; location is required",
		},
		{
			name:    "bad contact email",
			modify:  func(f *Fields) { f.ContactEmail = "not-an-email" },
			wantErr: "contact_email must be a valid email address",
		},
		{
			name:    "missing description",
			modify:  func(f *Fields) { f.Description = "" },
			wantErr: "description is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields("Backend Engineer")
			tt.modify(&f)

			err := f.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFields_ValidateExceptDescription(t *testing.T) {
	f := validFields("Backend Engineer")
	f.Description = ""
	assert.NoError(t, f.validateExceptDescription())

	f.Title = ""
	assert.ErrorIs(t, f.validateExceptDescription(), ErrValidation)
}

func TestFields_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "surrounding whitespace", in: "  Backend Engineer \n", want: "Backend Engineer"},
		{name: "generic type names", in: "Java (List<String>, Map<K,V>) experience", want: "Java (List<String>, Map<K,V>) experience"},
		{name: "comparison", in: "Know that a<b holds for sorted keys", want: "Know that a<b holds for sorted keys"},
		{name: "angle brackets", in: "Title: C++/Rust <Senior> Dev", want: "Title: C++/Rust <Senior> Dev"},
		{name: "escaped markup stays escaped", in: "&lt;script&gt;alert(1)&lt;/script&gt;Backend", want: "&lt;script&gt;alert(1)&lt;/script&gt;Backend"},
		{name: "ampersand", in: "R&D Labs", want: "R&D Labs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields(tt.in)
			f.Description = tt.in
			f.Requirements = tt.in
			f.ContactEmail = " hr@acme.io "

			got := f.Normalize()
			assert.Equal(t, tt.want, got.Title)
			assert.Equal(t, tt.want, got.Description)
			assert.Equal(t, tt.want, got.Requirements)
			assert.Equal(t, "hr@acme.io", got.ContactEmail)
		})
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "123", "not-a-uuid", uuid.Nil.String(), "507f1f77bcf86cd799439011"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, raw)
	}
}
