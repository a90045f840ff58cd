package requests

import (
	"encoding/json"

	"github.com/dictl-dev/dictl/internal/validations"
)

// Body is a request document that can check itself before it is sent.
type Body interface {
	Validate(optionalValidations ...func() error) error
}

func validate(req interface{}, optionalValidations []func() error) error {
	for _, validation := range optionalValidations {
		if err := validation(); err != nil {
			return err
		}
	}
	return validations.ValidateStruct(req)
}

// RequireKey is an optional validation for update bodies, which must name
// the object they replace.
func RequireKey(key string) func() error {
	return func() error {
		return validations.ValidateVar("key", key, "not_blank")
	}
}

// RequireObjectVersion is an optional validation for update bodies.
func RequireObjectVersion(version int) func() error {
	return func() error {
		return validations.ValidateVar("objectVersion", version, "gte=1")
	}
}

// CreateWorkspace request.
type CreateWorkspace struct {
	CompartmentID           string            `validate:"required,ocid" json:"compartmentId"`
	DisplayName             string            `validate:"not_blank" json:"displayName"`
	Description             string            `json:"description,omitempty"`
	DNSServerIP             string            `validate:"omitempty,ip" json:"dnsServerIp,omitempty"`
	DNSServerZone           string            `json:"dnsServerZone,omitempty"`
	IsPrivateNetworkEnabled *bool             `json:"isPrivateNetworkEnabled,omitempty"`
	SubnetID                string            `validate:"omitempty,ocid" json:"subnetId,omitempty"`
	VcnID                   string            `validate:"omitempty,ocid" json:"vcnId,omitempty"`
	FreeformTags            map[string]string `json:"freeformTags,omitempty"`
	DefinedTags             json.RawMessage   `json:"definedTags,omitempty"`
}

// Validate validates CreateWorkspace.
func (req CreateWorkspace) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// UpdateWorkspace request.
type UpdateWorkspace struct {
	DisplayName  string            `json:"displayName,omitempty"`
	Description  string            `json:"description,omitempty"`
	FreeformTags map[string]string `json:"freeformTags,omitempty"`
	DefinedTags  json.RawMessage   `json:"definedTags,omitempty"`
}

// Validate validates UpdateWorkspace.
func (req UpdateWorkspace) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// StopWorkspace request.
type StopWorkspace struct {
	QuiesceTimeout   *int  `validate:"omitempty,gte=0" json:"quiesceTimeout,omitempty"`
	IsForceOperation *bool `json:"isForceOperation,omitempty"`
}

// Validate validates StopWorkspace.
func (req StopWorkspace) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Object carries the fields every design-time object shares.
type Object struct {
	Key              string          `json:"key,omitempty"`
	ModelVersion     string          `json:"modelVersion,omitempty"`
	ObjectVersion    int             `json:"objectVersion,omitempty"`
	Name             string          `validate:"not_blank" json:"name"`
	Identifier       string          `validate:"not_blank" json:"identifier"`
	Description      string          `json:"description,omitempty"`
	ObjectStatus     *int            `json:"objectStatus,omitempty"`
	ParentRef        json.RawMessage `json:"parentRef,omitempty"`
	RegistryMetadata json.RawMessage `json:"registryMetadata,omitempty"`
}

// Project request, used for both create and update.
type Project struct {
	Object
}

// Validate validates Project.
func (req Project) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Folder request, used for both create and update.
type Folder struct {
	Object
	CategoryName string `json:"categoryName,omitempty"`
}

// Validate validates Folder.
func (req Folder) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Application request, used for both create and update.
type Application struct {
	Object
	DisplayName  string            `json:"displayName,omitempty"`
	FreeformTags map[string]string `json:"freeformTags,omitempty"`
}

// Validate validates Application.
func (req Application) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// DataFlow request, used for both create and update.
type DataFlow struct {
	Object
	Nodes            json.RawMessage `json:"nodes,omitempty"`
	Parameters       json.RawMessage `json:"parameters,omitempty"`
	FlowConfigValues json.RawMessage `json:"flowConfigValues,omitempty"`
}

// Validate validates DataFlow.
func (req DataFlow) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Pipeline request, used for both create and update.
type Pipeline struct {
	Object
	Nodes            json.RawMessage `json:"nodes,omitempty"`
	Parameters       json.RawMessage `json:"parameters,omitempty"`
	Variables        json.RawMessage `json:"variables,omitempty"`
	FlowConfigValues json.RawMessage `json:"flowConfigValues,omitempty"`
}

// Validate validates Pipeline.
func (req Pipeline) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// CreateTaskRun request.
type CreateTaskRun struct {
	Key              string          `json:"key,omitempty"`
	ModelVersion     string          `json:"modelVersion,omitempty"`
	Name             string          `json:"name,omitempty"`
	Description      string          `json:"description,omitempty"`
	Identifier       string          `json:"identifier,omitempty"`
	ObjectStatus     *int            `json:"objectStatus,omitempty"`
	ConfigProvider   json.RawMessage `json:"configProvider,omitempty"`
	ParentRef        json.RawMessage `json:"parentRef,omitempty"`
	RegistryMetadata json.RawMessage `validate:"required" json:"registryMetadata"`
}

// Validate validates CreateTaskRun.
func (req CreateTaskRun) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Task run statuses a client may request.
const (
	TaskRunTerminating = "TERMINATING"
)

// UpdateTaskRun request. The service only honours status changes.
type UpdateTaskRun struct {
	Key           string `json:"key"`
	Status        string `validate:"omitempty,oneof=TERMINATING" json:"status,omitempty"`
	ModelVersion  string `json:"modelVersion,omitempty"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	ObjectVersion int    `json:"objectVersion,omitempty"`
	ObjectStatus  *int   `json:"objectStatus,omitempty"`
	Identifier    string `json:"identifier,omitempty"`
}

// Validate validates UpdateTaskRun.
func (req UpdateTaskRun) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// ExternalPublication request, used for both create and update.
type ExternalPublication struct {
	Key                      string          `json:"key,omitempty"`
	ApplicationID            string          `validate:"required,ocid" json:"applicationId"`
	ApplicationCompartmentID string          `validate:"omitempty,ocid" json:"applicationCompartmentId,omitempty"`
	DisplayName              string          `validate:"not_blank" json:"displayName"`
	Description              string          `json:"description,omitempty"`
	ResourceConfiguration    json.RawMessage `json:"resourceConfiguration,omitempty"`
	ConfigurationDetails     json.RawMessage `json:"configurationDetails,omitempty"`
}

// Validate validates ExternalPublication.
func (req ExternalPublication) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// UpdateReference request.
type UpdateReference struct {
	Options         map[string]string `json:"options,omitempty"`
	TargetObject    json.RawMessage   `json:"targetObject,omitempty"`
	ChildReferences json.RawMessage   `json:"childReferences,omitempty"`
}

// Validate validates UpdateReference.
func (req UpdateReference) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// CreatePatch request.
type CreatePatch struct {
	Name             string          `validate:"not_blank" json:"name"`
	Identifier       string          `validate:"not_blank" json:"identifier"`
	Description      string          `json:"description,omitempty"`
	Key              string          `json:"key,omitempty"`
	ModelVersion     string          `json:"modelVersion,omitempty"`
	ObjectStatus     *int            `json:"objectStatus,omitempty"`
	PatchType        string          `validate:"patch_type" json:"patchType"`
	ObjectKeys       []string        `validate:"omitempty,dive,not_blank" json:"objectKeys,omitempty"`
	RegistryMetadata json.RawMessage `json:"registryMetadata,omitempty"`
}

// Validate validates CreatePatch.
func (req CreatePatch) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}
