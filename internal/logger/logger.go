package logger

import (
	"go.uber.org/zap"

	"github.com/ascentprep/ascentprep/internal/config"
)

func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.Env == config.EnvProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
