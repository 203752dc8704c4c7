/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	AppName         = "armelo"
	Version         = "0.3.0"
	EnvPrefix       = "ARMELO"
	ConfigName      = "armelo"
	DefaultDBPath   = "armelo.db"
	BackupBucket    = "armelo-prod-backup"
	BackupPrefix    = "snapshots"
	SnapshotDBName  = "armelo.db"
	SnapshotJSONKey = "armelo.json"
)
