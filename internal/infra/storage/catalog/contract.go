package catalog

import "github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"

// DBExecutor plain connection or the transaction carried by the context
type DBExecutor = dbmetrics.DBExecutor
