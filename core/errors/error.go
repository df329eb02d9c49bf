package terrr

import (
	"errors"
	"fmt"
)

var (
	// ErrBind は、エンドポイントをバインドできなかった場合に返されるエラー
	ErrBind = errors.New("bind failed")
	// ErrAddressInUse は ErrBind をラップしているので errors.Is(err, ErrBind) も真になる
	ErrAddressInUse = fmt.Errorf("%w: address already in use", ErrBind)
	ErrListen       = errors.New("listen failed")
	// ErrAccept は一回の accept 失敗を表す。サーバーは止めない
	ErrAccept = errors.New("accept failed")
)
