// Package artifact downloads, verifies, and unpacks toolchain release
// artifacts.
//
// # Integrity Model
//
// Every artifact has a SHA-256 digest recorded in the catalog. A file in the
// download cache is never trusted because it exists: its digest is
// recomputed and compared on every reuse. A fresh download is held in
// memory, hashed, and only written to the cache once the digest matches, so
// an unverified file can never be observed under its final cache name.
//
// When an OpenPGP keyring is configured, the artifact is additionally checked
// against its detached ".asc" signature. The checksum is always required; the
// signature is an extra layer, never a replacement.
//
// # Extraction
//
// Archives are unpacked into a fresh, uniquely named temporary directory,
// never into the final install location. The format is chosen by file
// extension: ".zip" archives are walked entry by entry, anything else is
// treated as a gzip-compressed tarball.
//
// # Usage
//
//	d := artifact.NewDownloader(cacheDir)
//	path, err := d.Fetch(ctx, url, "go1.22.0.linux-amd64.tar.gz", sha256Hex)
//	if err != nil {
//	    return err
//	}
//
//	tmp, err := artifact.NewExtractor().Extract(path)
//	if err != nil {
//	    return err
//	}
//	defer os.RemoveAll(tmp)
package artifact
