package models

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("user with this email already exists")
	ErrSubdomainTaken = errors.New("subdomain already taken")
)
