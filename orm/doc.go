/*
Package orm turns a raw key value store into prefixed sections called
buckets.

A bucket stores one type of object under a primary key and can maintain
any number of secondary indexes. Objects are fetched by key or index and
iterated in key order.
*/
package orm
