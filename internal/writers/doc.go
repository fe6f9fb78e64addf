// Package writers puts finished documents on disk or stdout.
//
// Design:
//   - A document is rendered completely before the destination is touched.
//   - Files are replaced atomically (temp file in the same directory + rename),
//     so a failed run never leaves a half-written summary behind.
//   - "-" means stdout; a reader that goes away early (`| head`) is not an error.
package writers
