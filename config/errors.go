package config

import "errors"

var (
	ErrConfigStructMustBeStruct = errors.New("config struct must be a struct")
	ErrInvalidEnvironment       = errors.New("invalid environment configuration")
)
