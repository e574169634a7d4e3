package inputval

import "testing"

func TestIsValidINN(t *testing.T) {
	tests := []struct {
		inn  string
		want bool
	}{
		{"771234567890", true},
		{"000000000000", true},

		{"", false},
		{"77123456789", false},   // 11 digits
		{"7712345678901", false}, // 13 digits
		{"77123456789a", false},
		{" 771234567890", false},
	}

	for _, tt := range tests {
		t.Run(tt.inn, func(t *testing.T) {
			if got := IsValidINN(tt.inn); got != tt.want {
				t.Errorf("IsValidINN(%q) = %v, want %v", tt.inn, got, tt.want)
			}
		})
	}
}

func TestIsValidSNILS(t *testing.T) {
	tests := []struct {
		snils string
		want  bool
	}{
		{"12345678901", true},
		{"", false},
		{"1234567890", false},
		{"123-456-789 01", false},
	}

	for _, tt := range tests {
		t.Run(tt.snils, func(t *testing.T) {
			if got := IsValidSNILS(tt.snils); got != tt.want {
				t.Errorf("IsValidSNILS(%q) = %v, want %v", tt.snils, got, tt.want)
			}
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+7 (495) 123-45-67", true},
		{"84951234567", true},
		{"12345", true},

		{"", false},
		{"1234", false},
		{"+7 495 123 45 67 ext 1", false},
		{"++74951234567", false},
		{"+7 (495) 123-45-67-89-00", false}, // too long
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.ru", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `json:"name" validate:"required,max=10" label:"Full name"`
		Email string `json:"email" validate:"required,email" label:"Email address"`
		INN   string `json:"inn" validate:"required,inn" label:"INN"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
		wantField  string
	}{
		{
			name:  "valid input",
			input: TestInput{Name: "Иван", Email: "ivan@example.ru", INN: "771234567890"},
		},
		{
			name:       "missing name",
			input:      TestInput{Email: "ivan@example.ru", INN: "771234567890"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
			wantField:  "name",
		},
		{
			name:       "name too long in runes",
			input:      TestInput{Name: "Константинопольский", Email: "ivan@example.ru", INN: "771234567890"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
			wantField:  "name",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "Иван", Email: "not-an-email", INN: "771234567890"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
			wantField:  "email",
		},
		{
			name:       "bad inn",
			input:      TestInput{Name: "Иван", Email: "ivan@example.ru", INN: "123"},
			wantErrors: true,
			wantFirst:  "INN must be exactly 12 digits.",
			wantField:  "inn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.HasErrors() != tt.wantErrors {
				t.Fatalf("Validate() HasErrors = %v, want %v (%v)", result.HasErrors(), tt.wantErrors, result.Errors)
			}
			if !tt.wantErrors {
				return
			}
			if result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
			if !result.Has(tt.wantField) {
				t.Errorf("expected error on %q, got %v", tt.wantField, result.Errors)
			}
		})
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	type Item struct {
		Date   string   `json:"date" validate:"omitempty,isodate" label:"Date"`
		Amount *float64 `json:"amount" validate:"omitnil,min=0" label:"Amount"`
	}
	type Input struct {
		Items []Item  `json:"items" validate:"omitempty,dive"`
		One   *Item   `json:"one"`
		Phone *string `json:"phone" validate:"omitnil,nonblank,phone" label:"Phone"`
	}

	neg := -5.0
	blank := "  "
	res := Validate(Input{
		Items: []Item{{Date: "2024-01-01"}, {Date: "31.12.2023"}},
		One:   &Item{Amount: &neg},
		Phone: &blank,
	})

	for _, want := range []string{"items[1].date", "one.amount", "phone"} {
		if !res.Has(want) {
			t.Errorf("expected error on %q, got %v", want, res.Errors)
		}
	}
	if res.Has("items[0].date") {
		t.Error("valid nested date reported as error")
	}
	if len(res.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestValidate_OptionalAbsent(t *testing.T) {
	type Input struct {
		SNILS string  `json:"snils" validate:"omitempty,snils"`
		Date  *string `json:"date" validate:"omitnil,isodate"`
	}
	if res := Validate(Input{}); res.HasErrors() {
		t.Errorf("absent optional fields should pass, got %v", res.Errors)
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("valid hex rejected")
	}
	if IsValidObjectID("invalid-id") || IsValidObjectID("") {
		t.Error("invalid id accepted")
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{}
	if r.All() != "" || r.First() != "" {
		t.Errorf("empty result: All=%q First=%q", r.All(), r.First())
	}
	r.Add("inn", "Error 1")
	r.Add("email", "Error 2")
	if r.All() != "Error 1; Error 2" {
		t.Errorf("All() = %q", r.All())
	}
	if r.First() != "Error 1" {
		t.Errorf("First() = %q", r.First())
	}
}
