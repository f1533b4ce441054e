package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	ReadNamesError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBTableExistsCheckError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Store errors
	StoreUnknownTypeError
	StoreOpenError
	StoreQueryError
	StoreResponseError
	StoreDecodeError
	StoreScanError
	StoreNoMasterListError

	// Resolver errors
	ResolverDuplicateNameError
	ResolverMissingRecordError
)
