package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "+7 (701) 123-45-67", want: "77011234567"},
		{in: "8 701 123 45 67", want: "77011234567"},
		{in: "7011234567", want: "77011234567"},
		{in: "12345", want: "12345"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	t.Parallel()

	if got := FormatPhone("87011234567"); got != "+7 (701) 123-45-67" {
		t.Errorf("FormatPhone = %q", got)
	}
	if got := FormatPhone("123"); got != "123" {
		t.Errorf("FormatPhone(short) = %q, want input back", got)
	}
}

func TestValidateStructCustomTags(t *testing.T) {
	t.Parallel()

	type form struct {
		Phone    string `validate:"required,phone"`
		Password string `validate:"required,password"`
	}

	tests := []struct {
		name       string
		in         form
		wantFields []string
	}{
		{name: "valid latin", in: form{Phone: "+7 701 123 45 67", Password: "Secret123"}},
		{name: "valid cyrillic upper", in: form{Phone: "87011234567", Password: "Пароль2024"}},
		{name: "short password", in: form{Phone: "87011234567", Password: "Ab1"}, wantFields: []string{"Password"}},
		{name: "no upper", in: form{Phone: "87011234567", Password: "secret123"}, wantFields: []string{"Password"}},
		{name: "bad phone", in: form{Phone: "555", Password: "Secret123"}, wantFields: []string{"Phone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.in)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("errors = %v, want fields %v", errs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := errs[f]; !ok {
					t.Errorf("missing error for %s in %v", f, errs)
				}
			}
		})
	}
}

func TestFormatValidationErrorsSorted(t *testing.T) {
	t.Parallel()

	got := FormatValidationErrors(map[string]string{"Seats": "x", "Club": "y"})
	if got != "Club: y; Seats: x" {
		t.Fatalf("got %q", got)
	}
}
