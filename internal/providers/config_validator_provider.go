package providers

import (
	"errors"
	"github.com/gookit/validate"
	"trustive/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch cv.conf.Storage.Driver {
	case "file":
		if cv.conf.Storage.FilePath == "" {
			return errors.New("storage.filePath is required for the file driver")
		}
		if cv.conf.Storage.SaveInterval <= 0 {
			return errors.New("storage.saveInterval must be positive for the file driver")
		}
	case "postgres":
		if cv.conf.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	}
	return nil
}
