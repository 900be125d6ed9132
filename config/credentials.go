package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// CredentialsConfig points at the broker credential file.
type CredentialsConfig struct {
	File string `mapstructure:"file"` // YAML with user, pwd, factor2, vc, apikey, imei

	// SSMPrefix, in prod, is the Parameter Store path whose children
	// (user, pwd, factor2, vc, apikey, imei) fill fields missing from the file.
	SSMPrefix string `mapstructure:"ssm_prefix"`
}

// Credentials are the broker login fields. All are required.
type Credentials struct {
	User    string `mapstructure:"user" validate:"required"`
	Pwd     string `mapstructure:"pwd" validate:"required"`
	Factor2 string `mapstructure:"factor2" validate:"required"`
	VC      string `mapstructure:"vc" validate:"required"`
	APIKey  string `mapstructure:"apikey" validate:"required"`
	IMEI    string `mapstructure:"imei" validate:"required"`
}

// LoadCredentials reads the credential file and validates that every field is set.
func LoadCredentials(cfg CredentialsConfig, env string) (*Credentials, error) {
	var creds Credentials

	if cfg.File != "" {
		v := viper.New()
		v.SetConfigFile(cfg.File)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			// prod may supply everything from Parameter Store
			if env != EnvProd || cfg.SSMPrefix == "" {
				return nil, fmt.Errorf("failed to read credentials: %w", err)
			}
		} else if err := v.Unmarshal(&creds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
		}
	}

	if env == EnvProd && cfg.SSMPrefix != "" {
		fillFromParameterStore(&creds, cfg.SSMPrefix)
	}

	if err := validateCredentials(&creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func fillFromParameterStore(creds *Credentials, prefix string) {
	fields := []struct {
		name string
		dst  *string
	}{
		{"user", &creds.User},
		{"pwd", &creds.Pwd},
		{"factor2", &creds.Factor2},
		{"vc", &creds.VC},
		{"apikey", &creds.APIKey},
		{"imei", &creds.IMEI},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = getParameterStoreValue(ssmPath(prefix, f.name), true)
		}
	}
}

func validateCredentials(creds *Credentials) error {
	err := validate.Struct(creds)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("invalid credentials: missing %s", strings.Join(missing, ", "))
}
