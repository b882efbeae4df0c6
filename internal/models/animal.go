package models

import "strings"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// FarmAnimalTypes is the whitelist of animal types the marketplace accepts.
// Kept lowercase; stored records carry the title-cased form.
var FarmAnimalTypes = []string{
	"cow", "chicken", "sheep", "goat", "horse", "duck",
	"turkey", "goose", "llama", "alpaca", "donkey", "mule",
}

type Animal struct {
	ID           string  `json:"id"`
	Timestamp    string  `json:"timestamp"`
	AnimalType   string  `json:"animal_type"`
	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Price        float64 `json:"price"`
	AnimalName   string  `json:"animal_name"`
	AnimalGender string  `json:"animal_gender"` // "Male" or "Female"
}

func IsFarmAnimal(animalType string) bool {
	lower := strings.ToLower(animalType)
	for _, t := range FarmAnimalTypes {
		if t == lower {
			return true
		}
	}
	return false
}

func IsValidGender(gender string) bool {
	lower := strings.ToLower(gender)
	return lower == "male" || lower == "female"
}

// TitleCase normalizes a value to an upper first letter and lowercase rest,
// e.g. "cow" -> "Cow", "FEMALE" -> "Female".
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
