package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	appctx "github.com/requiem-ai/modelhub/context"
)

const SETUP_SVC = "setup_svc"

// ModelSpec is one configured model instance from the hub config file.
type ModelSpec struct {
	ID        string         `mapstructure:"id"`
	Type      string         `mapstructure:"type"`
	Model     string         `mapstructure:"model"`
	APIKeyEnv string         `mapstructure:"api_key_env"`
	Params    map[string]any `mapstructure:"params"`
}

// SetupService loads the hub configuration: which model instances to bring
// up, resolved against the environment for secrets.
type SetupService struct {
	appctx.DefaultService

	models []ModelSpec
}

func (svc SetupService) Id() string {
	return SETUP_SVC
}

func (svc *SetupService) Configure(ctx *appctx.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	models, err := loadModelSpecs()
	if err != nil {
		return err
	}
	svc.models = models

	return nil
}

// Models returns the configured instance specs.
func (svc *SetupService) Models() []ModelSpec {
	return svc.models
}

// loadModelSpecs reads the instance list from the config file. The path
// comes from MODELHUB_CONFIG, falling back to ./models.yaml. A missing file
// just means no preconfigured instances.
func loadModelSpecs() ([]ModelSpec, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	cfgPath := strings.TrimSpace(os.Getenv("MODELHUB_CONFIG"))
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("models")
	}

	v.SetEnvPrefix("MODELHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read model config: %w", err)
	}

	var out struct {
		Models []ModelSpec `mapstructure:"models"`
	}
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("parse model config: %w", err)
	}

	for _, spec := range out.Models {
		if spec.ID == "" || spec.Type == "" {
			return nil, fmt.Errorf("model config entry missing id or type: %+v", spec)
		}
	}

	return out.Models, nil
}
