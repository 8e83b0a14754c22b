/*
Package session keeps propagation networks alive across requests.

A network created through the Manager stays in memory after its first run,
so later calls can assert more information into it and observe how the
conclusions evolve. Calls against the same network are serialized through
reference-counted per-network locks; nothing is persisted.
*/
package session
