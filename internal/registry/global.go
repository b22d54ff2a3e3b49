package registry

import (
	"fmt"
	"log/slog"

	"github.com/ayudhap/paperdesk/internal/executor"
)

var (
	executors = New[string, executor.Executor]()
	workflows = New[string, *executor.Workflow]()
)

func RegisterExecutor(name string, exec executor.Executor) error {
	if executors.Exists(name) {
		return fmt.Errorf("failed to register, executor with name '%s' already exists", name)
	}
	slog.Info("registering executor", "name", name)
	executors.Register(name, exec)
	return nil
}

func GetExecutor(name string) (executor.Executor, error) {
	exec, exists := executors.Get(name)
	if !exists {
		return nil, fmt.Errorf("executor with name '%s' does not exist", name)
	}
	return exec, nil
}

func ListExecutors() []string {
	return executors.List()
}

func BatchRegisterWorkflows(wfs map[string]*executor.Workflow) error {
	for name, wf := range wfs {
		if err := RegisterWorkflow(name, wf); err != nil {
			return err
		}
	}
	return nil
}

func RegisterWorkflow(name string, wf *executor.Workflow) error {
	if workflows.Exists(name) {
		return fmt.Errorf("failed to register, workflow with name '%s' already exists", name)
	}
	slog.Info("registering workflow", "name", name)
	workflows.Register(name, wf)
	return nil
}

func GetWorkflow(name string) (*executor.Workflow, error) {
	wf, exists := workflows.Get(name)
	if !exists {
		return nil, fmt.Errorf("workflow with name '%s' does not exist", name)
	}
	return wf, nil
}

func ListWorkflows() []string {
	return workflows.List()
}
