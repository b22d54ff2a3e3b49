package config

type WorkflowNode struct {
	Module   string         `yaml:"module"`
	Operator string         `yaml:"operator"`
	Args     map[string]any `yaml:"args"`
}

type Workflow struct {
	Description string         `yaml:"description"`
	Nodes       []WorkflowNode `yaml:"nodes"`
}

type WorkflowConfig struct {
	Workflows map[string]Workflow `yaml:"workflows"`
}
