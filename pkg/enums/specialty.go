package enums

import "fmt"

// MechanicSpecialty maps to the mechanic_specialty enum in Postgres.
type MechanicSpecialty string

const (
	SpecialtyAuto       MechanicSpecialty = "auto"
	SpecialtyMotorcycle MechanicSpecialty = "motorcycle"
	SpecialtyGeneral    MechanicSpecialty = "general"
)

var validSpecialties = []MechanicSpecialty{
	SpecialtyAuto,
	SpecialtyMotorcycle,
	SpecialtyGeneral,
}

// String implements fmt.Stringer.
func (m MechanicSpecialty) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MechanicSpecialty.
func (m MechanicSpecialty) IsValid() bool {
	for _, candidate := range validSpecialties {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMechanicSpecialty converts raw input into a MechanicSpecialty.
func ParseMechanicSpecialty(value string) (MechanicSpecialty, error) {
	for _, candidate := range validSpecialties {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mechanic specialty %q", value)
}
