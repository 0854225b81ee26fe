// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify sends account e-mails through an SMTP relay using
// jordan-wright/email. Without SMTP_HOST, New returns Nop and nothing is
// sent.
package notify
