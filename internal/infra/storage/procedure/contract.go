package procedure

import "github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
