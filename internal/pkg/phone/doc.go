// Package phone canonicalizes user-entered phone numbers into lookup keys.
//
// A key is the national significant number in digits only: punctuation is
// dropped and the configured country's "00"/"+" calling code or trunk "0" is
// stripped before the result is matched against the national pattern.
package phone
