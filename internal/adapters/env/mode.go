package env

import (
	"os"
)

type Mode int

const (
	ModeProd Mode = iota
	ModeDev
)

func (m Mode) String() string {
	if m == ModeDev {
		return "dev"
	}
	return "prod"
}

func (m Mode) IsDev() bool {
	return m == ModeDev
}

func DetectMode() Mode {
	if os.Getenv("FOLIO_DEV") == "1" {
		return ModeDev
	}
	return ModeProd
}
