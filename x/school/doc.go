/*
Package school implements a student ledger for a single school.

The school is described by a package configuration naming the authority
that grades, the treasury wallet and the tuition price. Any principal
enrolls once and owns its student record. Tuition is paid through the
cash module into the treasury, a single time per student. Once tuition
is settled the school authority records grades on the student record.
*/
package school
