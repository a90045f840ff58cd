package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/types"
)

// variant is one concrete body of a modelType family. build returns a fresh
// body with pointers to its key and object version and the flag binder.
type variant struct {
	name  string
	title string
	build func(update bool) (body requests.Variant, key *string, version *int, bind func(fs *pflag.FlagSet))
}

// variantCmds builds one create-<name> or update-<name> command per variant.
func variantCmds(a *app, res types.Resource, update bool, variants []variant) []*cobra.Command {
	action := "Creates"
	if update {
		action = "Updates"
	}
	noun := strings.ReplaceAll(res.Name, "-", " ")

	var out []*cobra.Command
	for _, v := range variants {
		body, key, version, bind := v.build(update)
		short := fmt.Sprintf("%s a %s of type %s", action, noun, v.title)
		out = append(out, objectCmd(a, verb(update)+"-"+v.name, short, res, update, body, key, version, bind))
	}
	return out
}

func baseFlags(fs *pflag.FlagSet, name, identifier, description, modelVersion *string, objectStatus **int, version *int, update bool) {
	fs.StringVar(name, "name", "", "Free form text without any restriction on permitted characters.")
	fs.StringVar(identifier, "identifier", "", "Value can only contain upper case letters, underscore and numbers.")
	fs.StringVar(description, "description", "", "Detailed description of the object.")
	fs.StringVar(modelVersion, "model-version", "", "The model version of the object.")
	fs.Var(newOptionalInt(objectStatus), "object-status", "The status of the object, 1 for shallow references across objects.")
	if update {
		fs.IntVar(version, "object-version", 0, "The version of the object being updated.")
	}
}

func jsonFlag(fs *pflag.FlagSet, p *json.RawMessage, name, usage string) {
	fs.Var(newJSONValue(p), name, usage+" JSON or file://path.")
}

func credentialFlags(fs *pflag.FlagSet, username, password *string, secret *json.RawMessage) {
	fs.StringVar(username, "username", "", "The user name for the connection.")
	fs.StringVar(password, "password", "", "The password for the connection.")
	jsonFlag(fs, secret, "password-secret", "A vault secret holding the password.")
}

// Connections.

func connectionBaseFlags(fs *pflag.FlagSet, b *requests.ConnectionBase, update bool) {
	baseFlags(fs, &b.Name, &b.Identifier, &b.Description, &b.ModelVersion, &b.ObjectStatus, &b.ObjectVersion, update)
	jsonFlag(fs, &b.ParentRef, "parent-ref", "A reference to the parent of the object.")
	jsonFlag(fs, &b.ConnectionProperties, "connection-properties", "The properties of the connection.")
	jsonFlag(fs, &b.RegistryMetadata, "registry-metadata", "Registry metadata of the object.")
}

var connectionVariants = []variant{
	{name: "oracle-adwc", title: "Oracle ADWC", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleADWCConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			credentialFlags(fs, &req.Username, &req.Password, &req.PasswordSecret)
		}
	}},
	{name: "oracle-atp", title: "Oracle ATP", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleATPConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			credentialFlags(fs, &req.Username, &req.Password, &req.PasswordSecret)
		}
	}},
	{name: "oracle-object-storage", title: "Oracle Object Storage", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleObjectStorageConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			fs.StringVar(&req.CredentialFileContent, "credential-file-content", "", "The credential file content of the user.")
			fs.StringVar(&req.UserID, "user-id", "", "The OCID of the user connecting to Object Storage.")
			fs.StringVar(&req.FingerPrint, "finger-print", "", "The fingerprint of the API signing key.")
			fs.StringVar(&req.PassPhrase, "pass-phrase", "", "The pass phrase of the API signing key.")
		}
	}},
	{name: "oracledb", title: "Oracle Database", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleDBConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			credentialFlags(fs, &req.Username, &req.Password, &req.PasswordSecret)
		}
	}},
	{name: "mysql", title: "MySQL", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.MySQLConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			credentialFlags(fs, &req.Username, &req.Password, &req.PasswordSecret)
		}
	}},
	{name: "generic-jdbc", title: "Generic JDBC", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.GenericJDBCConnection{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			connectionBaseFlags(fs, &req.ConnectionBase, update)
			credentialFlags(fs, &req.Username, &req.Password, &req.PasswordSecret)
		}
	}},
}

func newConnectionCmd(a *app) *cobra.Command {
	cmd := newResourceCmd("connection", "Manage connections of data assets",
		newGetCmd(a, types.Connection, "Gets a connection"),
		newListCmd(a, listCmd{res: types.Connection, short: "Lists connections", filters: []string{"dataAssetKey", "type"}}),
		newDeleteCmd(a, types.Connection, "Deletes a connection"),
	)
	cmd.AddCommand(variantCmds(a, types.Connection, false, connectionVariants)...)
	cmd.AddCommand(variantCmds(a, types.Connection, true, connectionVariants)...)
	return cmd
}

// Data assets.

func dataAssetBaseFlags(fs *pflag.FlagSet, b *requests.DataAssetBase, update bool) {
	baseFlags(fs, &b.Name, &b.Identifier, &b.Description, &b.ModelVersion, &b.ObjectStatus, &b.ObjectVersion, update)
	fs.StringVar(&b.ExternalKey, "external-key", "", "The external key of the object.")
	fs.Var(newMapValue(&b.AssetProperties), "asset-properties", "Additional properties as k=v,k2=v2 or a JSON object.")
	jsonFlag(fs, &b.RegistryMetadata, "registry-metadata", "Registry metadata of the object.")
	jsonFlag(fs, &b.DefaultConnection, "default-connection", "The default connection of the data asset.")
}

func autonomousFlags(fs *pflag.FlagSet, serviceName *string, serviceNames *[]string, driverClass, credentialFileContent *string,
	walletSecret, walletPasswordSecret *json.RawMessage, regionID, tenancyID, compartmentID, autonomousDBID *string) {
	fs.StringVar(serviceName, "service-name", "", "The service name of the database.")
	fs.StringSliceVar(serviceNames, "service-names", nil, "The service names of the database, repeatable.")
	fs.StringVar(driverClass, "driver-class", "", "The JDBC driver class.")
	fs.StringVar(credentialFileContent, "credential-file-content", "", "The wallet content.")
	jsonFlag(fs, walletSecret, "wallet-secret", "A vault secret holding the wallet.")
	jsonFlag(fs, walletPasswordSecret, "wallet-password-secret", "A vault secret holding the wallet password.")
	fs.StringVar(regionID, "region-id", "", "The region of the database.")
	fs.StringVar(tenancyID, "tenancy-id", "", "The OCID of the tenancy of the database.")
	fs.StringVar(compartmentID, "compartment-id", "", "The OCID of the compartment of the database.")
	fs.StringVar(autonomousDBID, "autonomous-db-id", "", "The OCID of the autonomous database.")
}

var dataAssetVariants = []variant{
	{name: "oracle", title: "Oracle Database", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			fs.StringVar(&req.Host, "host", "", "The database host.")
			fs.StringVar(&req.Port, "port", "", "The database port.")
			fs.StringVar(&req.ServiceName, "service-name", "", "The service name of the database.")
			fs.StringVar(&req.Driver, "driver", "", "The JDBC driver.")
			fs.StringVar(&req.SID, "sid", "", "The Oracle SID.")
			fs.StringVar(&req.CredentialFileContent, "credential-file-content", "", "The wallet content.")
		}
	}},
	{name: "oracle-object-storage", title: "Oracle Object Storage", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleObjectStorageDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			fs.StringVar(&req.URL, "url", "", "The Object Storage URL.")
			fs.StringVar(&req.TenancyID, "tenancy-id", "", "The OCID of the tenancy.")
			fs.StringVar(&req.Namespace, "namespace", "", "The Object Storage namespace.")
			fs.StringVar(&req.Region, "region", "", "The Object Storage region.")
		}
	}},
	{name: "oracle-atp", title: "Oracle ATP", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleATPDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			autonomousFlags(fs, &req.ServiceName, &req.ServiceNames, &req.DriverClass, &req.CredentialFileContent,
				&req.WalletSecret, &req.WalletPasswordSecret, &req.RegionID, &req.TenancyID, &req.CompartmentID, &req.AutonomousDBID)
		}
	}},
	{name: "oracle-adwc", title: "Oracle ADWC", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.OracleADWCDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			autonomousFlags(fs, &req.ServiceName, &req.ServiceNames, &req.DriverClass, &req.CredentialFileContent,
				&req.WalletSecret, &req.WalletPasswordSecret, &req.RegionID, &req.TenancyID, &req.CompartmentID, &req.AutonomousDBID)
		}
	}},
	{name: "mysql", title: "MySQL", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.MySQLDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			fs.StringVar(&req.Host, "host", "", "The database host.")
			fs.StringVar(&req.Port, "port", "", "The database port.")
			fs.StringVar(&req.ServiceName, "service-name", "", "The database name.")
		}
	}},
	{name: "generic-jdbc", title: "Generic JDBC", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.GenericJDBCDataAsset{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			dataAssetBaseFlags(fs, &req.DataAssetBase, update)
			fs.StringVar(&req.Host, "host", "", "The database host.")
			fs.StringVar(&req.Port, "port", "", "The database port.")
			fs.StringVar(&req.DataAssetType, "data-asset-type", "", "The data asset type of the JDBC source.")
		}
	}},
}

func newDataAssetCmd(a *app) *cobra.Command {
	cmd := newResourceCmd("data-asset", "Manage data assets in a workspace",
		newGetCmd(a, types.DataAsset, "Gets a data asset"),
		newListCmd(a, listCmd{res: types.DataAsset, short: "Lists data assets", filters: []string{"type"}}),
		newDeleteCmd(a, types.DataAsset, "Deletes a data asset"),
	)
	cmd.AddCommand(variantCmds(a, types.DataAsset, false, dataAssetVariants)...)
	cmd.AddCommand(variantCmds(a, types.DataAsset, true, dataAssetVariants)...)
	return cmd
}

// Tasks.

func taskBaseFlags(fs *pflag.FlagSet, b *requests.TaskBase, update bool) {
	baseFlags(fs, &b.Name, &b.Identifier, &b.Description, &b.ModelVersion, &b.ObjectStatus, &b.ObjectVersion, update)
	jsonFlag(fs, &b.ParentRef, "parent-ref", "A reference to the parent of the object.")
	jsonFlag(fs, &b.InputPorts, "input-ports", "The input ports of the task.")
	jsonFlag(fs, &b.OutputPorts, "output-ports", "The output ports of the task.")
	jsonFlag(fs, &b.Parameters, "parameters", "The parameters of the task.")
	jsonFlag(fs, &b.OpConfigValues, "op-config-values", "Configuration values of the task operator.")
	jsonFlag(fs, &b.ConfigProviderDelegate, "config-provider-delegate", "The configuration provider of the task.")
	jsonFlag(fs, &b.RegistryMetadata, "registry-metadata", "Registry metadata of the task, naming its aggregator.")
}

var taskVariants = []variant{
	{name: "integration-task", title: "integration task", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.IntegrationTask{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			taskBaseFlags(fs, &req.TaskBase, update)
			jsonFlag(fs, &req.DataFlow, "data-flow", "The data flow the task runs.")
		}
	}},
	{name: "data-loader-task", title: "data loader task", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.DataLoaderTask{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			taskBaseFlags(fs, &req.TaskBase, update)
			jsonFlag(fs, &req.DataFlow, "data-flow", "The data flow the task runs.")
		}
	}},
	{name: "pipeline-task", title: "pipeline task", build: func(update bool) (requests.Variant, *string, *int, func(*pflag.FlagSet)) {
		req := &requests.PipelineTask{}
		return req, &req.Key, &req.ObjectVersion, func(fs *pflag.FlagSet) {
			taskBaseFlags(fs, &req.TaskBase, update)
			jsonFlag(fs, &req.Pipeline, "pipeline", "The pipeline the task runs.")
		}
	}},
}

func newTaskCmd(a *app) *cobra.Command {
	cmd := newResourceCmd("task", "Manage tasks in a workspace",
		newGetCmd(a, types.Task, "Gets a task"),
		newListCmd(a, listCmd{res: types.Task, short: "Lists tasks", filters: []string{"folderId", "type"}}),
		newDeleteCmd(a, types.Task, "Deletes a task"),
	)
	cmd.AddCommand(variantCmds(a, types.Task, false, taskVariants)...)
	cmd.AddCommand(variantCmds(a, types.Task, true, taskVariants)...)
	return cmd
}

func newTaskValidationCmd(a *app) *cobra.Command {
	cmd := newResourceCmd("task-validation", "Validate tasks in a workspace",
		newGetCmd(a, types.TaskValidation, "Gets a task validation"),
		newListCmd(a, listCmd{res: types.TaskValidation, short: "Lists task validations", filters: []string{"identifier"}}),
		newDeleteCmd(a, types.TaskValidation, "Deletes a task validation"),
	)
	cmd.AddCommand(variantCmds(a, types.TaskValidation, false, taskVariants)...)
	return cmd
}
