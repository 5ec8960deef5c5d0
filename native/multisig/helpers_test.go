package multisig

import (
	"time"

	coreerrors "msigchain/core/errors"
	"msigchain/core/types"
	"msigchain/executor"
)

func testContext(authority types.AccountID) executor.Context {
	return executor.Context{Authority: authority, BlockTime: time.UnixMilli(1_000_000)}
}

func atBlockTime(ctx executor.Context, ms int64) executor.Context {
	ctx.BlockTime = time.UnixMilli(ms)
	return ctx
}

func isPermissionDenied(err error) bool { return coreerrors.Is(err, coreerrors.KindPermissionDenied) }
func isDuplicate(err error) bool        { return coreerrors.Is(err, coreerrors.KindDuplicate) }
func isNotFound(err error) bool         { return coreerrors.Is(err, coreerrors.KindNotFound) }
