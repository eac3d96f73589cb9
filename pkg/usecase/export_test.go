package usecase

// ValidateInput is exported for testing
var ValidateInput = validateInput
