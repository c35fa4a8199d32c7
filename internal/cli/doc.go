// Package cli provides the interactive ImgVault shell.
//
// It wires configuration, logging, the document store, the auth provider,
// blob storage, the local cache and the terminal device adapters, and runs
// a read-eval-print loop whose command set follows the session route:
//
//   - signed out: register, login, help, exit
//   - signed in: list, show, delete, download, share, pick, camera, queue,
//     clear, upload, account, logout, help, exit
//
// The loop is started via App.Run(ctx), which blocks until the user exits.
package cli
