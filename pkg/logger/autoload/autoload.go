// Package autoload initializes the global logger from the LOG_* environment
// on import. Import it for its side effect from main packages only.
package autoload

import (
	configx "github.com/chatcommerce/shopagent/pkg/config"
	logx "github.com/chatcommerce/shopagent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
