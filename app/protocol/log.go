package protocol

import (
	"github.com/embercoin/emberd/infrastructure/logger"
	"github.com/embercoin/emberd/util/panics"
)

var log = logger.RegisterSubSystem("PROT")
var spawn = panics.GoroutineWrapperFunc(log)
