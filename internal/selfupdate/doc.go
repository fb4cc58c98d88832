// Package selfupdate implements the safe self-replacing update protocol.
//
// When a deployment would overwrite the currently running executable, the
// running binary is cloned to a well-known file in the system temp directory
// and launched as a detached helper carrying a private finish-update
// instruction. The original process then exits so its file handle is
// released, and the helper retries the deferred copy in a bounded loop.
package selfupdate
