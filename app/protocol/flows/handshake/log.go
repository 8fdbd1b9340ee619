package handshake

import (
	"github.com/embercoin/emberd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PROT")
