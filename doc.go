/* Package fourth: a small, embeddable FORTH-like command language.

A program is a stream of whitespace delimited words.  Each word is looked up
in the dictionary and run; a word that is not in the dictionary must be a
number, which is pushed onto the value stack.  Quoted words like "hello" or
'two words' push text.  Comments are written ( like this ), or after a \ up to
the end of the line.

New words are defined with : and ; , for example:

	: SQUARE DUP * ;
	4 SQUARE .

The body of a definition is compiled into a list of actions rather than run.
The structural words IF ELSE THEN and DO LOOP may only be used inside a
definition; they compile into branches over that list, so that a definition
with unbalanced structure is rejected before it is ever installed:

	: ABS DUP 0 < IF 0 SWAP - THEN ;
	: COUNT 0 DO I . LOOP ;

A compiled body refers to the words it calls by name, and looks them up again
each time it runs.  Redefining a word therefore also changes any word that was
compiled to call it.

Memory

All cells live in a single array.  The first part is shared by the value stack,
which grows up from address 0, and the return stack, which grows down from the
end of the stack region; a DO loop keeps its index on the return stack.  The
rest is the heap, addressed directly with @ and ! .

Words

	SP RP       push the stack or return stack pointer
	.S          print the stack without changing it
	.           pop and print a cell followed by a newline
	EMIT        pop and write a number as a character, or a text as is
	CR          write a newline
	DUP DROP SWAP OVER
	:           define a new word up to the next ;
	'           push the next word from the input as text
	EXECUTE     pop a word name and run it
	= < >       comparisons, pushing -1 for true and 0 for false
	+ - * /     arithmetic; + also concatenates text
	@ !         fetch ( addr -- value ) and store ( value addr -- )
	I           push the innermost loop index
	IF ELSE THEN DO LOOP   compile-only control flow

Every error aborts the whole Run: both stacks are cleared, and an *Error is
returned whose Kind says what went wrong.
*/
package fourth
