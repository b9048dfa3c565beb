package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	addressRegex = regexp.MustCompile(`^[\p{L}0-9\s,.'#\-/()]+$`)
	placeRegex   = regexp.MustCompile(`^[\p{L}\s.'\-]+$`)
	phoneRegex   = regexp.MustCompile(`^\+?[0-9][0-9\s\-]{6,18}$`)
	pincodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\s\-]{2,9}$`)
)

// ValidateShippingFields checks the delivery details of an order.
func ValidateShippingFields(name, phone, address, city, state, pincode string) FieldValidationErrors {
	errs := FieldValidationErrors{}

	if strings.TrimSpace(name) == "" {
		errs = append(errs, FieldValidationError{"name", "Name is required"})
	}

	phone = strings.TrimSpace(phone)
	if !phoneRegex.MatchString(phone) {
		errs = append(errs, FieldValidationError{"phone", "Phone must be 7 to 19 digits, optionally starting with +"})
	}

	address = strings.TrimSpace(address)
	if address == "" {
		errs = append(errs, FieldValidationError{"address", "Address is required"})
	} else if !addressRegex.MatchString(address) {
		errs = append(errs, FieldValidationError{"address", "Address contains invalid characters"})
	}

	city = strings.TrimSpace(city)
	if city == "" {
		errs = append(errs, FieldValidationError{"city", "City is required"})
	} else if !placeRegex.MatchString(city) {
		errs = append(errs, FieldValidationError{"city", "City must only contain letters and spaces"})
	}

	state = strings.TrimSpace(state)
	if state == "" {
		errs = append(errs, FieldValidationError{"state", "State is required"})
	} else if !placeRegex.MatchString(state) {
		errs = append(errs, FieldValidationError{"state", "State must only contain letters and spaces"})
	}

	if !pincodeRegex.MatchString(strings.TrimSpace(pincode)) {
		errs = append(errs, FieldValidationError{"pincode", "Pincode must be 3 to 10 letters or digits"})
	}
	return errs
}

// Title converts the first letter of each word to uppercase and the rest to lowercase.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
