// Package autoload configures the global logger from the LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	configx "deskflow/pkg/config"
	logx "deskflow/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
