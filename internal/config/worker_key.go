package config

type WorkerKeyStruct struct {
	PersistValidationRunsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistValidationRunsQueue: "persist_validation_runs_queue",
}
