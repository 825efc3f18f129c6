package sqlitedb

import (
	"crypto/md5"
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"sync"

	"modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterHashFunctions installs md5hex and sha1hex as SQL scalar
// functions on the modernc.org/sqlite driver, used by copypipeline's
// tile-hash SQL kernels (spec §4.3's Hash schema, §4.5's hash algorithm
// selector). Registration is process-global and idempotent: the driver
// rejects re-registering the same name, so later Adapters reuse what the
// first one installed.
func RegisterHashFunctions() error {
	var err error
	registerOnce.Do(func() {
		if regErr := sqlite.RegisterDeterministicScalarFunction("md5hex", 1, md5HexFunc); regErr != nil {
			err = regErr
			return
		}
		err = sqlite.RegisterDeterministicScalarFunction("sha1hex", 1, sha1HexFunc)
	})
	return err
}

func md5HexFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	data, err := blobArg(args)
	if err != nil {
		return nil, err
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

func sha1HexFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	data, err := blobArg(args)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

func blobArg(args []driver.Value) ([]byte, error) {
	if len(args) != 1 || args[0] == nil {
		return nil, newErr(ErrDriver, nil, "hash function expects exactly one non-null argument")
	}
	switch v := args[0].(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, newErr(ErrDriver, nil, "hash function expects blob or text argument")
	}
}
