package requests

import (
	"encoding/json"
)

// Connection model types.
const (
	ModelOracleADWCConnection          = "ORACLE_ADWC_CONNECTION"
	ModelOracleATPConnection           = "ORACLE_ATP_CONNECTION"
	ModelOracleObjectStorageConnection = "ORACLE_OBJECT_STORAGE_CONNECTION"
	ModelOracleDBConnection            = "ORACLEDB_CONNECTION"
	ModelMySQLConnection               = "MYSQL_CONNECTION"
	ModelGenericJDBCConnection         = "GENERIC_JDBC_CONNECTION"
)

// Data asset model types.
const (
	ModelOracleDataAsset              = "ORACLE_DATA_ASSET"
	ModelOracleObjectStorageDataAsset = "ORACLE_OBJECT_STORAGE_DATA_ASSET"
	ModelOracleATPDataAsset           = "ORACLE_ATP_DATA_ASSET"
	ModelOracleADWCDataAsset          = "ORACLE_ADWC_DATA_ASSET"
	ModelMySQLDataAsset               = "MYSQL_DATA_ASSET"
	ModelGenericJDBCDataAsset         = "GENERIC_JDBC_DATA_ASSET"
)

// Task model types. Task validations use the same set.
const (
	ModelIntegrationTask = "INTEGRATION_TASK"
	ModelDataLoaderTask  = "DATA_LOADER_TASK"
	ModelPipelineTask    = "PIPELINE_TASK"
)

// Variant is a request body whose concrete type is selected by modelType.
type Variant interface {
	Body
	ModelType() string
}

// marshalVariant writes v with its modelType field prepended. v must be a
// struct type without its own MarshalJSON.
func marshalVariant(modelType string, v interface{}) ([]byte, error) {
	fields, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(modelType)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(fields)+len(head)+14)
	out = append(out, `{"modelType":`...)
	out = append(out, head...)
	if len(fields) > 2 {
		out = append(out, ',')
	}
	out = append(out, fields[1:]...)
	return out, nil
}

// ConnectionBase carries the fields shared by every connection variant.
type ConnectionBase struct {
	Key                  string          `json:"key,omitempty"`
	ModelVersion         string          `json:"modelVersion,omitempty"`
	ObjectVersion        int             `json:"objectVersion,omitempty"`
	Name                 string          `validate:"not_blank" json:"name"`
	Identifier           string          `validate:"not_blank" json:"identifier"`
	Description          string          `json:"description,omitempty"`
	ObjectStatus         *int            `json:"objectStatus,omitempty"`
	ParentRef            json.RawMessage `json:"parentRef,omitempty"`
	ConnectionProperties json.RawMessage `json:"connectionProperties,omitempty"`
	RegistryMetadata     json.RawMessage `json:"registryMetadata,omitempty"`
}

// OracleADWCConnection is a connection to an Autonomous Data Warehouse.
type OracleADWCConnection struct {
	ConnectionBase
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
	PasswordSecret json.RawMessage `json:"passwordSecret,omitempty"`
}

// OracleATPConnection is a connection to an Autonomous Transaction Processing database.
type OracleATPConnection struct {
	ConnectionBase
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
	PasswordSecret json.RawMessage `json:"passwordSecret,omitempty"`
}

// OracleObjectStorageConnection is a connection to an Object Storage namespace.
type OracleObjectStorageConnection struct {
	ConnectionBase
	CredentialFileContent string `json:"credentialFileContent,omitempty"`
	UserID                string `validate:"omitempty,ocid" json:"userId,omitempty"`
	FingerPrint           string `json:"fingerPrint,omitempty"`
	PassPhrase            string `json:"passPhrase,omitempty"`
}

// OracleDBConnection is a connection to an Oracle database.
type OracleDBConnection struct {
	ConnectionBase
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
	PasswordSecret json.RawMessage `json:"passwordSecret,omitempty"`
}

// MySQLConnection is a connection to a MySQL database.
type MySQLConnection struct {
	ConnectionBase
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
	PasswordSecret json.RawMessage `json:"passwordSecret,omitempty"`
}

// GenericJDBCConnection is a connection through a JDBC driver.
type GenericJDBCConnection struct {
	ConnectionBase
	Username       string          `json:"username,omitempty"`
	Password       string          `json:"password,omitempty"`
	PasswordSecret json.RawMessage `json:"passwordSecret,omitempty"`
}

func (OracleADWCConnection) ModelType() string          { return ModelOracleADWCConnection }
func (OracleATPConnection) ModelType() string           { return ModelOracleATPConnection }
func (OracleObjectStorageConnection) ModelType() string { return ModelOracleObjectStorageConnection }
func (OracleDBConnection) ModelType() string            { return ModelOracleDBConnection }
func (MySQLConnection) ModelType() string               { return ModelMySQLConnection }
func (GenericJDBCConnection) ModelType() string         { return ModelGenericJDBCConnection }

func (req OracleADWCConnection) MarshalJSON() ([]byte, error) {
	type fields OracleADWCConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleATPConnection) MarshalJSON() ([]byte, error) {
	type fields OracleATPConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleObjectStorageConnection) MarshalJSON() ([]byte, error) {
	type fields OracleObjectStorageConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleDBConnection) MarshalJSON() ([]byte, error) {
	type fields OracleDBConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req MySQLConnection) MarshalJSON() ([]byte, error) {
	type fields MySQLConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req GenericJDBCConnection) MarshalJSON() ([]byte, error) {
	type fields GenericJDBCConnection
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleADWCConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleATPConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleObjectStorageConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleDBConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req MySQLConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req GenericJDBCConnection) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// DataAssetBase carries the fields shared by every data asset variant.
type DataAssetBase struct {
	Key               string            `json:"key,omitempty"`
	ModelVersion      string            `json:"modelVersion,omitempty"`
	ObjectVersion     int               `json:"objectVersion,omitempty"`
	Name              string            `validate:"not_blank" json:"name"`
	Identifier        string            `validate:"not_blank" json:"identifier"`
	Description       string            `json:"description,omitempty"`
	ObjectStatus      *int              `json:"objectStatus,omitempty"`
	ExternalKey       string            `json:"externalKey,omitempty"`
	AssetProperties   map[string]string `json:"assetProperties,omitempty"`
	RegistryMetadata  json.RawMessage   `json:"registryMetadata,omitempty"`
	DefaultConnection json.RawMessage   `json:"defaultConnection,omitempty"`
}

// OracleDataAsset is an Oracle database data asset.
type OracleDataAsset struct {
	DataAssetBase
	Host                  string `json:"host,omitempty"`
	Port                  string `validate:"omitempty,numeric" json:"port,omitempty"`
	ServiceName           string `json:"serviceName,omitempty"`
	Driver                string `json:"driver,omitempty"`
	SID                   string `json:"sid,omitempty"`
	CredentialFileContent string `json:"credentialFileContent,omitempty"`
}

// OracleObjectStorageDataAsset is an Object Storage data asset.
type OracleObjectStorageDataAsset struct {
	DataAssetBase
	URL       string `validate:"omitempty,url" json:"url,omitempty"`
	TenancyID string `validate:"omitempty,ocid" json:"tenancyId,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Region    string `json:"region,omitempty"`
}

// OracleATPDataAsset is an Autonomous Transaction Processing data asset.
type OracleATPDataAsset struct {
	DataAssetBase
	ServiceName           string          `json:"serviceName,omitempty"`
	ServiceNames          []string        `json:"serviceNames,omitempty"`
	DriverClass           string          `json:"driverClass,omitempty"`
	CredentialFileContent string          `json:"credentialFileContent,omitempty"`
	WalletSecret          json.RawMessage `json:"walletSecret,omitempty"`
	WalletPasswordSecret  json.RawMessage `json:"walletPasswordSecret,omitempty"`
	RegionID              string          `json:"regionId,omitempty"`
	TenancyID             string          `validate:"omitempty,ocid" json:"tenancyId,omitempty"`
	CompartmentID         string          `validate:"omitempty,ocid" json:"compartmentId,omitempty"`
	AutonomousDBID        string          `validate:"omitempty,ocid" json:"autonomousDbId,omitempty"`
}

// OracleADWCDataAsset is an Autonomous Data Warehouse data asset.
type OracleADWCDataAsset struct {
	DataAssetBase
	ServiceName           string          `json:"serviceName,omitempty"`
	ServiceNames          []string        `json:"serviceNames,omitempty"`
	DriverClass           string          `json:"driverClass,omitempty"`
	CredentialFileContent string          `json:"credentialFileContent,omitempty"`
	WalletSecret          json.RawMessage `json:"walletSecret,omitempty"`
	WalletPasswordSecret  json.RawMessage `json:"walletPasswordSecret,omitempty"`
	RegionID              string          `json:"regionId,omitempty"`
	TenancyID             string          `validate:"omitempty,ocid" json:"tenancyId,omitempty"`
	CompartmentID         string          `validate:"omitempty,ocid" json:"compartmentId,omitempty"`
	AutonomousDBID        string          `validate:"omitempty,ocid" json:"autonomousDbId,omitempty"`
}

// MySQLDataAsset is a MySQL data asset.
type MySQLDataAsset struct {
	DataAssetBase
	Host        string `json:"host,omitempty"`
	Port        string `validate:"omitempty,numeric" json:"port,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
}

// GenericJDBCDataAsset is a data asset reached through a JDBC driver.
type GenericJDBCDataAsset struct {
	DataAssetBase
	Host          string `json:"host,omitempty"`
	Port          string `validate:"omitempty,numeric" json:"port,omitempty"`
	DataAssetType string `json:"dataAssetType,omitempty"`
}

func (OracleDataAsset) ModelType() string              { return ModelOracleDataAsset }
func (OracleObjectStorageDataAsset) ModelType() string { return ModelOracleObjectStorageDataAsset }
func (OracleATPDataAsset) ModelType() string           { return ModelOracleATPDataAsset }
func (OracleADWCDataAsset) ModelType() string          { return ModelOracleADWCDataAsset }
func (MySQLDataAsset) ModelType() string               { return ModelMySQLDataAsset }
func (GenericJDBCDataAsset) ModelType() string         { return ModelGenericJDBCDataAsset }

func (req OracleDataAsset) MarshalJSON() ([]byte, error) {
	type fields OracleDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleObjectStorageDataAsset) MarshalJSON() ([]byte, error) {
	type fields OracleObjectStorageDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleATPDataAsset) MarshalJSON() ([]byte, error) {
	type fields OracleATPDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleADWCDataAsset) MarshalJSON() ([]byte, error) {
	type fields OracleADWCDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req MySQLDataAsset) MarshalJSON() ([]byte, error) {
	type fields MySQLDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req GenericJDBCDataAsset) MarshalJSON() ([]byte, error) {
	type fields GenericJDBCDataAsset
	return marshalVariant(req.ModelType(), fields(req))
}

func (req OracleDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleObjectStorageDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleATPDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req OracleADWCDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req MySQLDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req GenericJDBCDataAsset) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// TaskBase carries the fields shared by every task variant.
type TaskBase struct {
	Key                    string          `json:"key,omitempty"`
	ModelVersion           string          `json:"modelVersion,omitempty"`
	ObjectVersion          int             `json:"objectVersion,omitempty"`
	Name                   string          `validate:"not_blank" json:"name"`
	Identifier             string          `validate:"not_blank" json:"identifier"`
	Description            string          `json:"description,omitempty"`
	ObjectStatus           *int            `json:"objectStatus,omitempty"`
	ParentRef              json.RawMessage `json:"parentRef,omitempty"`
	InputPorts             json.RawMessage `json:"inputPorts,omitempty"`
	OutputPorts            json.RawMessage `json:"outputPorts,omitempty"`
	Parameters             json.RawMessage `json:"parameters,omitempty"`
	OpConfigValues         json.RawMessage `json:"opConfigValues,omitempty"`
	ConfigProviderDelegate json.RawMessage `json:"configProviderDelegate,omitempty"`
	RegistryMetadata       json.RawMessage `validate:"required" json:"registryMetadata"`
}

// IntegrationTask runs a data flow.
type IntegrationTask struct {
	TaskBase
	DataFlow json.RawMessage `json:"dataFlow,omitempty"`
}

// DataLoaderTask loads data through a data flow.
type DataLoaderTask struct {
	TaskBase
	DataFlow json.RawMessage `json:"dataFlow,omitempty"`
}

// PipelineTask runs a pipeline.
type PipelineTask struct {
	TaskBase
	Pipeline json.RawMessage `json:"pipeline,omitempty"`
}

func (IntegrationTask) ModelType() string { return ModelIntegrationTask }
func (DataLoaderTask) ModelType() string  { return ModelDataLoaderTask }
func (PipelineTask) ModelType() string    { return ModelPipelineTask }

func (req IntegrationTask) MarshalJSON() ([]byte, error) {
	type fields IntegrationTask
	return marshalVariant(req.ModelType(), fields(req))
}

func (req DataLoaderTask) MarshalJSON() ([]byte, error) {
	type fields DataLoaderTask
	return marshalVariant(req.ModelType(), fields(req))
}

func (req PipelineTask) MarshalJSON() ([]byte, error) {
	type fields PipelineTask
	return marshalVariant(req.ModelType(), fields(req))
}

func (req IntegrationTask) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req DataLoaderTask) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

func (req PipelineTask) Validate(optionalValidations ...func() error) error {
	return validate(req, optionalValidations)
}

// Verify interface implementations at compile time
var (
	_ Variant = OracleADWCConnection{}
	_ Variant = OracleATPConnection{}
	_ Variant = OracleObjectStorageConnection{}
	_ Variant = OracleDBConnection{}
	_ Variant = MySQLConnection{}
	_ Variant = GenericJDBCConnection{}
	_ Variant = OracleDataAsset{}
	_ Variant = OracleObjectStorageDataAsset{}
	_ Variant = OracleATPDataAsset{}
	_ Variant = OracleADWCDataAsset{}
	_ Variant = MySQLDataAsset{}
	_ Variant = GenericJDBCDataAsset{}
	_ Variant = IntegrationTask{}
	_ Variant = DataLoaderTask{}
	_ Variant = PipelineTask{}
)
