package models

import (
	"fmt"
	"time"
)

// DeployMode selects plain constructor deployments or upgradeable proxies
type DeployMode string

const (
	DeployModeDirect DeployMode = "direct"
	DeployModeProxy  DeployMode = "proxy"
)

// ParseDeployMode validates a mode string, empty means direct
func ParseDeployMode(s string) (DeployMode, error) {
	switch DeployMode(s) {
	case "", DeployModeDirect:
		return DeployModeDirect, nil
	case DeployModeProxy:
		return DeployModeProxy, nil
	default:
		return "", fmt.Errorf("unknown deploy mode %q (expected direct or proxy)", s)
	}
}

// ProxyImplementationSuffix is appended to the template name of upgradeable implementations
const ProxyImplementationSuffix = "V2"

// ImplementationKey is the address book name under which a proxy's implementation is recorded
func ImplementationKey(name string) string {
	return name + "_Impl"
}

// DeploymentEntry is one element of an ordered deployment plan
type DeploymentEntry struct {
	Name     string
	Template string
	Mode     DeployMode
}

// NewDeploymentEntry derives the artifact template from the logical name
func NewDeploymentEntry(name string, mode DeployMode) DeploymentEntry {
	template := TemplateFor(name)
	if mode == DeployModeProxy {
		template += ProxyImplementationSuffix
	}
	return DeploymentEntry{Name: name, Template: template, Mode: mode}
}

// DeploymentStatus tracks an entry through a run
type DeploymentStatus string

const (
	DeploymentStatusPending  DeploymentStatus = "PENDING"
	DeploymentStatusDeployed DeploymentStatus = "DEPLOYED"
	DeploymentStatusVerified DeploymentStatus = "VERIFIED"
	DeploymentStatusFailed   DeploymentStatus = "FAILED"
)

// DeployedContract is what a deployer reports for a successful deployment
type DeployedContract struct {
	Address               string
	ImplementationAddress string
	TxHash                string
}

// DeploymentRecord is the per-entry outcome of a deployment run
type DeploymentRecord struct {
	Entry                 DeploymentEntry
	Args                  []any
	Address               string
	ImplementationAddress string
	TxHash                string
	Status                DeploymentStatus
	Placeholders          []string
	Error                 error
	VerifyError           error
	StartedAt             time.Time
	Duration              time.Duration
}

// NewDeploymentRecord creates a pending record
func NewDeploymentRecord(entry DeploymentEntry) *DeploymentRecord {
	return &DeploymentRecord{
		Entry:  entry,
		Status: DeploymentStatusPending,
	}
}

// MarkDeployed moves a pending record to deployed
func (r *DeploymentRecord) MarkDeployed(deployed *DeployedContract) {
	r.Address = deployed.Address
	r.ImplementationAddress = deployed.ImplementationAddress
	r.TxHash = deployed.TxHash
	r.Status = DeploymentStatusDeployed
}

// MarkFailed records the error and moves the record to failed
func (r *DeploymentRecord) MarkFailed(err error) {
	r.Error = err
	r.Status = DeploymentStatusFailed
}

// MarkVerified moves a deployed record to verified
func (r *DeploymentRecord) MarkVerified() {
	if r.Status == DeploymentStatusDeployed {
		r.Status = DeploymentStatusVerified
	}
}

// Resolution is the argument list for a contract, resolved against the address book
type Resolution struct {
	Kind  ContractKind
	Known bool
	Args  []any
	// Placeholders are referenced names present in the book without a value
	Placeholders []string
	// Suggestions are close known names when Known is false
	Suggestions []string
}
