/*
Package sandbox manages saved sandbox layouts and runs the engine over them.

It serializes access to each sandbox across goroutines (ref-counted local mutexes) and,
optionally, across replicas (a ports.DistributedLocker), so read-modify-write edits
coming from several clients do not lose updates.
*/
package sandbox
