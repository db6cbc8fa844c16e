package passgen

// Classes returns the set of classes present in password, as counted by
// Classify.
func Classes(password string) ClassSet {
	var present ClassSet
	for _, r := range password {
		present = present.With(Classify(r))
	}
	return present
}

// Check reports whether password contains at least one character of every
// class in required. Classes outside required are allowed.
func Check(password string, required ClassSet) bool {
	return Classes(password)&required == required
}

// CheckRequest is Check with the classes taken from req. The length of req
// is not compared.
func CheckRequest(password string, req Request) bool {
	return Check(password, req.Classes())
}
