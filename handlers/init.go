package handlers

import (
	pythonhandler "reqpin/handlers/python"
	"reqpin/utils"
)

// Handler is a source of declared dependencies in a project.
type Handler interface {
	Name() string
	Detect(projectDir string) bool
	Scan(projectDir string) ([]string, error)
}

// GetHandlers returns the handlers that can declare dependencies. file is the
// requirements file name the requirements handler reads. Manifest entries
// that cannot be used are reported through logger.
func GetHandlers(file string, logger *utils.Logger) []Handler {
	return []Handler{
		&pythonhandler.PythonHandler{File: file},
		&pythonhandler.PyProjectHandler{Logger: logger},
		&pythonhandler.PipfileHandler{Logger: logger},
		&pythonhandler.CondaHandler{Logger: logger},
		&pythonhandler.SetupPyHandler{Logger: logger},
	}
}
