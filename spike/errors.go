// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import "errors"

// ErrConfig is wrapped by every error reporting an invalid configuration.
// Such errors are only returned from construction (Build, Validate),
// never from stepping.
var ErrConfig = errors.New("spike: invalid configuration")
