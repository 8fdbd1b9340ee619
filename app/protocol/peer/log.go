package peer

import (
	"github.com/embercoin/emberd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PEER")
