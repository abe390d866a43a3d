// Package recycle implements the zero-downtime rolling replacement of every
// container instance in an ECS cluster backed by an auto scaling group.
//
// The [Recycler] temporarily raises the group's desired capacity by one so a
// spare instance joins the cluster, then walks the instances that existed at
// the start of the run: each is drained, waited on until it runs zero tasks,
// and terminated without decrementing desired capacity so the group launches
// its replacement. The final original instance is drained but left alive;
// restoring the original desired capacity scales it away. Suspended scaling
// processes and the original capacity are restored on every exit path.
//
// Instances are recycled strictly one at a time. That sequencing is what
// keeps cluster capacity at or above its original level for the whole run.
package recycle
