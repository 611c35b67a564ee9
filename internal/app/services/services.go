package services

// Services defined in this package:
// - AuthService: login, signup, admin bootstrap, credential checks and the login log
// - StudentService: students and their exam results and fee entries, read and written as one aggregate
