package patient

import (
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
