package validator

import "testing"

type bookingInput struct {
	SlotDate string `validate:"required,datekey"`
	SlotTime string `validate:"required,timelabel"`
}

type doctorInput struct {
	Specialty string `validate:"required,specialty"`
	Password  string `validate:"required,strongpassword"`
	Phone     string `validate:"omitempty,phone"`
}

func TestValidateBookingInput(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(bookingInput{SlotDate: "24_8_2025", SlotTime: "04:00 PM"}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []bookingInput{
		{SlotDate: "24-08-2025", SlotTime: "04:00 PM"},
		{SlotDate: "24_08_2025", SlotTime: "04:00 PM"},
		{SlotDate: "24_8_2025", SlotTime: "4:00 PM"},
		{SlotDate: "24_8_2025", SlotTime: "04:15 PM"},
		{SlotDate: "24_8_2025", SlotTime: "09:30 PM"},
		{SlotDate: "24_8_2025", SlotTime: "09:30 AM"},
	}
	for _, in := range cases {
		err := v.Validate(in)
		if err == nil {
			t.Errorf("expected error for %+v", in)
			continue
		}
		if len(v.FormatValidationErrors(err)) == 0 {
			t.Errorf("expected formatted errors for %+v", in)
		}
	}
}

func TestValidateDoctorInput(t *testing.T) {
	v := NewValidator()

	ok := doctorInput{Specialty: "Vaccination", Password: "Secret123", Phone: "98765 43210"}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	bad := doctorInput{Specialty: "Surgery", Password: "secret", Phone: "0000000000"}
	err := v.Validate(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs := v.FormatValidationErrors(err)
	for _, field := range []string{"Specialty", "Password", "Phone"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for %s: %v", field, errs)
		}
	}
}
