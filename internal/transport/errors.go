package transport

import "github.com/pkg/errors"

func errFromString(s string) error { return errors.New(s) }
